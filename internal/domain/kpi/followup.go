package kpi

import (
	"strings"
	"time"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

// followupWindow tells when a given follow-up falls due. Day 28 is anchored
// on birth; the earlier ones on discharge.
type followupWindow struct {
	fromBirth  bool
	offsetDays int
}

var followupWindows = map[int]followupWindow{
	2:  {offsetDays: 3},
	7:  {offsetDays: 7},
	14: {offsetDays: 14},
	28: {fromBirth: true, offsetDays: 29},
}

// FollowupResult reports completion for one follow-up day.
// Completed + Missed + Excluded.Total() + NotYetDue + DeadExcluded covers
// every baby considered.
type FollowupResult struct {
	Day          int        `json:"day"`
	Due          int        `json:"due"`
	Completed    int        `json:"completed"`
	Missed       int        `json:"missed"`
	PctCompleted *float64   `json:"pct_completed"`
	NotYetDue    int        `json:"not_yet_due"`
	DeadExcluded int        `json:"dead_excluded"`
	Excluded     Exclusions `json:"excluded"`
	NoData       bool       `json:"no_data"`
}

// FollowupCompletion measures whether the scheduled follow-up happened. A
// baby counts as completed when its followUp array carries the matching
// followUpNumber. Babies whose due date has not passed yet stay out of both
// numerator and denominator. Babies dead by flag, or discharged with type
// "died", are excluded under DeadExcluded.
func FollowupCompletion(babies []records.BabyRecord, day int, now time.Time) (*FollowupResult, error) {
	window, ok := followupWindows[day]
	if !ok {
		return nil, ErrInvalidDay
	}

	res := &FollowupResult{Day: day}
	for i := range babies {
		b := &babies[i]
		if b.DeadBaby {
			res.DeadExcluded++
			continue
		}

		var anchor records.TimeField
		if window.fromBirth {
			anchor = b.Birth
		} else {
			// A discharge of type "died" is a death, not a missing
			// timestamp: the window never opens.
			if strings.EqualFold(b.LastDischargeType, "died") {
				res.DeadExcluded++
				continue
			}
			anchor = b.Discharge
		}
		if res.Excluded.add(anchor) {
			continue
		}

		due := anchor.Time.AddDate(0, 0, window.offsetDays)
		if now.Before(due) {
			res.NotYetDue++
			continue
		}

		res.Due++
		if hasFollowup(b, day) {
			res.Completed++
		} else {
			res.Missed++
		}
	}
	res.PctCompleted = rate(res.Completed, res.Due)
	res.NoData = res.Due == 0
	return res, nil
}

func hasFollowup(b *records.BabyRecord, day int) bool {
	for _, fu := range b.FollowUps {
		if fu.Number != nil && *fu.Number == day {
			return true
		}
	}
	return false
}
