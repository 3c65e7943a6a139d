package kpi

import "github.com/anshcare/kmc-dashboard/internal/domain/records"

// Initiation time buckets, lower bound inclusive, upper exclusive, last open.
var initiationBuckets = []struct {
	Label string
	Lo    float64
	Hi    float64
}{
	{"<1h", 0, 1},
	{"1-6h", 1, 6},
	{"6-24h", 6, 24},
	{"24h+", 24, -1},
}

// InitiationBucket is one slice of the time-to-initiation distribution.
type InitiationBucket struct {
	Label string   `json:"label"`
	Count int      `json:"count"`
	Pct   *float64 `json:"pct"`
}

// InitiationResult reports how quickly KMC started after birth.
type InitiationResult struct {
	Initiated    int                `json:"initiated"`
	NotInitiated int                `json:"not_initiated"`
	Buckets      []InitiationBucket `json:"buckets"`
	MedianHours  *float64           `json:"median_hours"`
	MeanHours    *float64           `json:"mean_hours"`
	Excluded     Exclusions         `json:"excluded"`
	NoData       bool               `json:"no_data"`
}

// KMCInitiation finds each baby's first observation day with any KMC time and
// maps it to hours after birth (ageDay days, an absent ageDay counting as day
// zero). Babies with a usable birth date but no KMC session at all are
// reported as not initiated.
func KMCInitiation(babies []records.BabyRecord) *InitiationResult {
	res := &InitiationResult{}
	var hours []float64

	for i := range babies {
		b := &babies[i]
		if res.Excluded.add(b.Birth) {
			continue
		}

		firstDay := -1
		for _, obs := range b.Observations {
			if obs.KMCMinutes <= 0 {
				continue
			}
			day := 0
			if obs.AgeDay != nil {
				day = *obs.AgeDay
			}
			if firstDay < 0 || day < firstDay {
				firstDay = day
			}
		}
		if firstDay < 0 {
			res.NotInitiated++
			continue
		}
		res.Initiated++
		hours = append(hours, float64(firstDay)*24)
	}

	counts := make([]int, len(initiationBuckets))
	for _, h := range hours {
		for j, bucket := range initiationBuckets {
			if h >= bucket.Lo && (bucket.Hi < 0 || h < bucket.Hi) {
				counts[j]++
				break
			}
		}
	}
	for j, bucket := range initiationBuckets {
		res.Buckets = append(res.Buckets, InitiationBucket{
			Label: bucket.Label,
			Count: counts[j],
			Pct:   rate(counts[j], res.Initiated),
		})
	}
	res.MedianHours = median(hours)
	res.MeanHours = mean(hours)
	res.NoData = res.Initiated == 0 && res.NotInitiated == 0
	return res
}
