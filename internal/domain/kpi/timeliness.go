package kpi

import "github.com/anshcare/kmc-dashboard/internal/domain/records"

// TimelinessResult reports how many inborn babies were registered within the
// threshold after birth. Within + Late + Excluded.Total() == TotalInborn.
type TimelinessResult struct {
	ThresholdHours int        `json:"threshold_hours"`
	TotalInborn    int        `json:"total_inborn"`
	Considered     int        `json:"considered"`
	Within         int        `json:"within"`
	Late           int        `json:"late"`
	PctWithin      *float64   `json:"pct_within"`
	Excluded       Exclusions `json:"excluded"`
	NoData         bool       `json:"no_data"`
}

// RegistrationTimeliness measures registration delay for inborn babies.
// A baby is within the threshold when registration minus birth falls in
// [0, threshold] hours. Records missing either timestamp leave the
// denominator entirely.
func RegistrationTimeliness(babies []records.BabyRecord, thresholdHours int) (*TimelinessResult, error) {
	if thresholdHours != 12 && thresholdHours != 24 {
		return nil, ErrInvalidThreshold
	}

	res := &TimelinessResult{ThresholdHours: thresholdHours}
	for i := range babies {
		b := &babies[i]
		if !b.Inborn() {
			continue
		}
		res.TotalInborn++
		if res.Excluded.add(b.Birth) || res.Excluded.add(b.Registration) {
			continue
		}
		diffHours := b.Registration.Time.Sub(b.Birth.Time).Hours()
		if diffHours >= 0 && diffHours <= float64(thresholdHours) {
			res.Within++
		} else {
			res.Late++
		}
	}
	res.Considered = res.Within + res.Late
	res.PctWithin = rate(res.Within, res.Considered)
	res.NoData = res.Considered == 0
	return res, nil
}
