package kpi

import "github.com/anshcare/kmc-dashboard/internal/domain/records"

// OverviewResult carries the headline counts for the dashboard landing view.
type OverviewResult struct {
	Babies        int      `json:"babies"`
	Hospitals     int      `json:"hospitals"`
	Deaths        int      `json:"deaths"`
	MortalityRate *float64 `json:"mortality_rate"`
	Discharges    int      `json:"discharges"`
	NoData        bool     `json:"no_data"`
}

// Overview summarizes the snapshot.
func Overview(babies []records.BabyRecord, discharges []records.DischargeRecord) *OverviewResult {
	hospitals := make(map[string]bool)
	deaths := 0
	for i := range babies {
		if babies[i].Hospital != "" {
			hospitals[babies[i].Hospital] = true
		}
		if babies[i].DeadBaby {
			deaths++
		}
	}
	return &OverviewResult{
		Babies:        len(babies),
		Hospitals:     len(hospitals),
		Deaths:        deaths,
		MortalityRate: rate(deaths, len(babies)),
		Discharges:    len(discharges),
		NoData:        len(babies) == 0 && len(discharges) == 0,
	}
}
