package kpi

import (
	"fmt"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

// StayLocation summarizes stay durations for one ward location.
type StayLocation struct {
	Count        int      `json:"count"`
	AvgDays      *float64 `json:"avg_days"`
	AvgFormatted string   `json:"avg_formatted"`
}

// StayResult reports hospital stay duration by baby location.
type StayResult struct {
	Locations map[string]StayLocation `json:"locations"`
	Total     int                     `json:"total"`
	Excluded  Exclusions              `json:"excluded"`
	NoData    bool                    `json:"no_data"`
}

// StayDuration measures birth-to-discharge time per location. Babies with a
// discharge at or before birth are counted as malformed.
func StayDuration(babies []records.BabyRecord) *StayResult {
	type tally struct {
		count int
		days  float64
	}
	locations := make(map[string]*tally)
	res := &StayResult{Locations: make(map[string]StayLocation)}

	for i := range babies {
		b := &babies[i]
		if res.Excluded.add(b.Birth) || res.Excluded.add(b.Discharge) {
			continue
		}
		if !b.Discharge.Time.After(b.Birth.Time) {
			res.Excluded.Malformed++
			continue
		}
		days := b.Discharge.Time.Sub(b.Birth.Time).Hours() / 24
		loc := b.Location
		if loc == "" {
			loc = "Unknown"
		}
		t := locations[loc]
		if t == nil {
			t = &tally{}
			locations[loc] = t
		}
		t.count++
		t.days += days
		res.Total++
	}

	for loc, t := range locations {
		avg := t.days / float64(t.count)
		res.Locations[loc] = StayLocation{
			Count:        t.count,
			AvgDays:      &avg,
			AvgFormatted: formatDays(avg),
		}
	}
	res.NoData = res.Total == 0
	return res
}

// formatDays renders a fractional day count as "N days M hours".
func formatDays(days float64) string {
	d := int(days)
	h := int((days - float64(d)) * 24)
	return fmt.Sprintf("%d days %d hours", d, h)
}
