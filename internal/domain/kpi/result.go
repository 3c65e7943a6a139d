// Package kpi computes the dashboard's clinical aggregates over a decoded
// record snapshot. Every function is pure: it never mutates its inputs and
// returns identical results for identical inputs. Rates are fractions in
// [0,1]; an empty denominator yields a nil rate, never zero or NaN, so "no
// data" stays distinguishable from "0%". Records a metric cannot use are
// counted in the result's Exclusions rather than dropped silently.
package kpi

import (
	"errors"
	"sort"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

var (
	ErrInvalidThreshold = errors.New("threshold must be 12 or 24 hours")
	ErrInvalidDay       = errors.New("follow-up day must be 2, 7, 14 or 28")
	ErrInvalidGroupBy   = errors.New("unknown group_by value")
)

// Exclusions tallies records a metric could not use.
type Exclusions struct {
	Missing   int `json:"missing"`
	Malformed int `json:"malformed"`
}

// Total is the number of excluded records.
func (e Exclusions) Total() int { return e.Missing + e.Malformed }

// add tallies an unusable time field. Returns false when the field is fine.
func (e *Exclusions) add(t records.TimeField) bool {
	switch {
	case t.Missing():
		e.Missing++
	case t.Malformed():
		e.Malformed++
	default:
		return false
	}
	return true
}

func rate(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	r := float64(num) / float64(den)
	return &r
}

func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	var m float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		m = sorted[mid]
	} else {
		m = (sorted[mid-1] + sorted[mid]) / 2
	}
	return &m
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}
