package kpi

import (
	"strings"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

// Mortality grouping dimensions.
const (
	GroupNone          = "none"
	GroupHospital      = "hospital"
	GroupInbornOutborn = "inborn_outborn"
	GroupLocation      = "location"
	GroupKMCStability  = "kmc_stability"
)

// The data-entry app records this danger sign when a baby is too unstable
// for kangaroo care.
const unstableDangerSign = "केएमसी के लिए अस्थिर"

// MortalityGroup is the death count for one group.
type MortalityGroup struct {
	Deaths int      `json:"deaths"`
	Total  int      `json:"total"`
	Rate   *float64 `json:"rate"`
}

// MortalityResult reports death rates overall and per group.
type MortalityResult struct {
	GroupBy string                    `json:"group_by"`
	Overall MortalityGroup            `json:"overall"`
	Groups  map[string]MortalityGroup `json:"groups,omitempty"`
	NoData  bool                      `json:"no_data"`
}

// Mortality computes the death rate with deadBaby as the numerator, grouped
// by the requested dimension. An empty group carries a nil rate.
func Mortality(babies []records.BabyRecord, groupBy string) (*MortalityResult, error) {
	switch groupBy {
	case GroupNone, GroupHospital, GroupInbornOutborn, GroupLocation, GroupKMCStability:
	default:
		return nil, ErrInvalidGroupBy
	}

	type tally struct{ deaths, total int }
	groups := make(map[string]*tally)
	overall := tally{}

	// Dimensions with a fixed key set are seeded up front: an empty group
	// must surface with a nil rate, not vanish from the result.
	switch groupBy {
	case GroupInbornOutborn:
		groups["inborn"] = &tally{}
		groups["outborn"] = &tally{}
	case GroupKMCStability:
		groups["stable"] = &tally{}
		groups["unstable"] = &tally{}
	}

	for i := range babies {
		b := &babies[i]
		overall.total++
		if b.DeadBaby {
			overall.deaths++
		}
		if groupBy == GroupNone {
			continue
		}
		key := mortalityKey(b, groupBy)
		g := groups[key]
		if g == nil {
			g = &tally{}
			groups[key] = g
		}
		g.total++
		if b.DeadBaby {
			g.deaths++
		}
	}

	res := &MortalityResult{
		GroupBy: groupBy,
		Overall: MortalityGroup{
			Deaths: overall.deaths,
			Total:  overall.total,
			Rate:   rate(overall.deaths, overall.total),
		},
		NoData: overall.total == 0,
	}
	if groupBy != GroupNone {
		res.Groups = make(map[string]MortalityGroup, len(groups))
		for key, g := range groups {
			res.Groups[key] = MortalityGroup{
				Deaths: g.deaths,
				Total:  g.total,
				Rate:   rate(g.deaths, g.total),
			}
		}
	}
	return res, nil
}

func mortalityKey(b *records.BabyRecord, groupBy string) string {
	switch groupBy {
	case GroupHospital:
		if b.Hospital == "" {
			return "Unknown"
		}
		return b.Hospital
	case GroupInbornOutborn:
		if b.Inborn() {
			return "inborn"
		}
		return "outborn"
	case GroupLocation:
		if b.Location == "" {
			return "Unknown"
		}
		return b.Location
	case GroupKMCStability:
		return KMCStability(b)
	}
	return ""
}

// KMCStability classifies a baby as stable or unstable for kangaroo care.
// Unstable means an explicit flag on any observation day, the matching
// danger sign, or no recorded KMC time at all.
func KMCStability(b *records.BabyRecord) string {
	unstable := false
	var totalKMC float64
	for _, obs := range b.Observations {
		if obs.KMCMinutes > 0 {
			totalKMC += obs.KMCMinutes
		}
		if obs.UnstableForKMC {
			unstable = true
		}
		if strings.Contains(obs.DangerSign, unstableDangerSign) {
			unstable = true
		}
	}
	if unstable || totalKMC == 0 {
		return "unstable"
	}
	return "stable"
}
