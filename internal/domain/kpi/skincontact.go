package kpi

import "github.com/anshcare/kmc-dashboard/internal/domain/records"

// High skin-to-skin counts are almost always data-entry mistakes.
const skinContactAlertThreshold = 10

// SkinAlert flags one suspiciously high skin-contact entry.
type SkinAlert struct {
	UID            string  `json:"uid"`
	Hospital       string  `json:"hospital"`
	FollowUpNumber int     `json:"followup_number"`
	Count          float64 `json:"count"`
}

// SkinContactResult reports skin-to-skin contact counts across follow-ups.
type SkinContactResult struct {
	Samples int         `json:"samples"`
	Average *float64    `json:"average"`
	Min     *float64    `json:"min"`
	Max     *float64    `json:"max"`
	Alerts  []SkinAlert `json:"alerts"`
	NoData  bool        `json:"no_data"`
}

// SkinContact aggregates numberSkinContact over every follow-up except day
// 28, whose form asks a different question.
func SkinContact(babies []records.BabyRecord) *SkinContactResult {
	res := &SkinContactResult{}
	var values []float64

	for i := range babies {
		b := &babies[i]
		for _, fu := range b.FollowUps {
			if fu.Number != nil && *fu.Number == 28 {
				continue
			}
			if fu.SkinContact == nil {
				continue
			}
			v := *fu.SkinContact
			values = append(values, v)
			if v > skinContactAlertThreshold {
				num := 0
				if fu.Number != nil {
					num = *fu.Number
				}
				res.Alerts = append(res.Alerts, SkinAlert{
					UID:            b.UID,
					Hospital:       b.Hospital,
					FollowUpNumber: num,
					Count:          v,
				})
			}
		}
	}

	res.Samples = len(values)
	res.NoData = len(values) == 0
	if len(values) > 0 {
		res.Average = mean(values)
		mn, mx := values[0], values[0]
		for _, v := range values[1:] {
			if v < mn {
				mn = v
			}
			if v > mx {
				mx = v
			}
		}
		res.Min = &mn
		res.Max = &mx
	}
	return res
}
