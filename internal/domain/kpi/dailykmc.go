package kpi

import (
	"math"
	"time"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

// DailyKMCCell aggregates one hospital-location pair for one day.
type DailyKMCCell struct {
	TotalMinutes float64  `json:"total_minutes"`
	Babies       int      `json:"babies"`
	AvgHours     *float64 `json:"avg_hours"`
}

// DailyKMCDay is one day of the daily KMC analysis.
type DailyKMCDay struct {
	Date string `json:"date"`
	// Cells is keyed hospital, then location. Only populated pairs appear.
	Cells                    map[string]map[string]DailyKMCCell `json:"cells"`
	ExcludedSameDayDischarge int                                `json:"excluded_same_day_discharge"`
}

// DailyKMCResult reports per-day average KMC hours for the last three days.
type DailyKMCResult struct {
	Days   []DailyKMCDay `json:"days"`
	NoData bool          `json:"no_data"`
}

// DailyKMC computes average KMC hours by hospital and location for the three
// days before now. A baby discharged on the analysis date is excluded for
// that date and tallied, since its partial day would drag the average down.
func DailyKMC(babies []records.BabyRecord, now time.Time) *DailyKMCResult {
	res := &DailyKMCResult{}
	today := dateOnly(now)
	any := false

	for offset := 1; offset <= 3; offset++ {
		target := today.AddDate(0, 0, -offset)
		day := DailyKMCDay{
			Date:  target.Format("2006-01-02"),
			Cells: make(map[string]map[string]DailyKMCCell),
		}

		type tally struct {
			minutes float64
			babies  int
		}
		cells := make(map[string]map[string]*tally)

		for i := range babies {
			b := &babies[i]
			if b.Hospital == "" || b.Location == "" || len(b.Observations) == 0 || !b.Birth.OK() {
				continue
			}
			if b.Discharge.OK() && dateOnly(b.Discharge.Time).Equal(target) {
				day.ExcludedSameDayDischarge++
				continue
			}
			birthDate := dateOnly(b.Birth.Time)
			for _, obs := range b.Observations {
				if obs.AgeDay == nil || obs.KMCMinutes <= 0 {
					continue
				}
				obsDate := birthDate.AddDate(0, 0, *obs.AgeDay)
				if !obsDate.Equal(target) {
					continue
				}
				byLoc := cells[b.Hospital]
				if byLoc == nil {
					byLoc = make(map[string]*tally)
					cells[b.Hospital] = byLoc
				}
				t := byLoc[b.Location]
				if t == nil {
					t = &tally{}
					byLoc[b.Location] = t
				}
				t.minutes += obs.KMCMinutes
				t.babies++
			}
		}

		for hospital, byLoc := range cells {
			day.Cells[hospital] = make(map[string]DailyKMCCell, len(byLoc))
			for loc, t := range byLoc {
				avg := math.Round(t.minutes/float64(t.babies)/60*10) / 10
				day.Cells[hospital][loc] = DailyKMCCell{
					TotalMinutes: t.minutes,
					Babies:       t.babies,
					AvgHours:     &avg,
				}
				any = true
			}
		}
		res.Days = append(res.Days, day)
	}
	res.NoData = !any
	return res
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
