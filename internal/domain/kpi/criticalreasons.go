package kpi

import (
	"regexp"
	"strings"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

var reasonItemPattern = regexp.MustCompile(`'([^']*)'`)

// CriticalReasonsResult counts why babies were still critical at discharge.
type CriticalReasonsResult struct {
	Reasons           map[string]int `json:"reasons"`
	BabiesWithReasons int            `json:"babies_with_reasons"`
	UniqueReasons     int            `json:"unique_reasons"`
	NoData            bool           `json:"no_data"`
}

// CriticalReasons tallies individual reasons from the discharges collection.
// The field holds either a plain string or a list literal like
// "['GA', 'weightLoss>2%']"; each listed reason counts separately.
func CriticalReasons(discharges []records.DischargeRecord) *CriticalReasonsResult {
	res := &CriticalReasonsResult{Reasons: make(map[string]int)}

	for i := range discharges {
		raw := strings.TrimSpace(discharges[i].CriticalReasons)
		if raw == "" {
			continue
		}
		res.BabiesWithReasons++
		for _, reason := range splitReasons(raw) {
			res.Reasons[reason]++
		}
	}
	res.UniqueReasons = len(res.Reasons)
	res.NoData = res.BabiesWithReasons == 0
	return res
}

func splitReasons(raw string) []string {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var out []string
		for _, m := range reasonItemPattern.FindAllStringSubmatch(raw, -1) {
			if reason := strings.TrimSpace(m[1]); reason != "" {
				out = append(out, reason)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{raw}
}
