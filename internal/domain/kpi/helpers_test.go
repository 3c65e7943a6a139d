package kpi

import (
	"time"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

func ts(t time.Time) records.TimeField {
	return records.TimeField{Time: t, Present: true, Valid: true}
}

func malformedTS() records.TimeField {
	return records.TimeField{Present: true}
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func obsDay(age int, kmcMinutes float64) records.ObservationDay {
	return records.ObservationDay{AgeDay: intp(age), KMCMinutes: kmcMinutes}
}
