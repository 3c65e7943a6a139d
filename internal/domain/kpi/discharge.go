package kpi

import (
	"regexp"
	"strings"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
	"github.com/anshcare/kmc-dashboard/internal/platform/store"
)

// Discharge outcome categories.
const (
	CategoryCriticalHome     = "critical_home"
	CategoryStableHome       = "stable_home"
	CategoryCriticalReferred = "critical_referred"
	CategoryDied             = "died"
	CategoryOther            = "other"
)

// Categories in display order.
var OutcomeCategories = []string{
	CategoryCriticalHome,
	CategoryStableHome,
	CategoryCriticalReferred,
	CategoryDied,
	CategoryOther,
}

var emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}\x{24C2}-\x{1F251}]+`)

func cleanEmoji(s string) string {
	return strings.TrimSpace(emojiPattern.ReplaceAllString(s, ""))
}

// CategorizeDischarge classifies a discharges-collection record by its
// status and type fields.
func CategorizeDischarge(d *records.DischargeRecord) string {
	status := strings.ToLower(d.Status)
	typ := strings.ToLower(d.Type)
	switch {
	case status == "critical" && typ == "home":
		return CategoryCriticalHome
	case status == "stable" && typ == "home":
		return CategoryStableHome
	case status == "critical" && typ == "referred":
		return CategoryCriticalReferred
	case typ == "died":
		return CategoryDied
	default:
		return CategoryOther
	}
}

// CategorizeBackup classifies a babyBackUp record by its free-text discharge
// status, after stripping emoji. The data-entry app wrote these strings in
// English and Hindi; match order matters because several labels share words.
func CategorizeBackup(b *records.BabyRecord) string {
	raw := cleanEmoji(b.DischargedStatusString)
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "critical and discharged"):
		return CategoryCriticalHome
	case strings.Contains(lower, "discharged according to criteria") || strings.Contains(lower, "stable"):
		return CategoryStableHome
	case strings.Contains(lower, "referred out") || strings.Contains(lower, "critical"):
		return CategoryCriticalReferred
	case strings.Contains(raw, "मृत्यु हो गई") ||
		strings.Contains(lower, "died before discharge") ||
		strings.Contains(lower, "death"):
		return CategoryDied
	default:
		return CategoryOther
	}
}

// OutcomeCategory is one slice of the discharge outcome distribution.
type OutcomeCategory struct {
	Count int      `json:"count"`
	Pct   *float64 `json:"pct"`
}

// OutcomesResult reports how discharges ended, by category.
type OutcomesResult struct {
	Categories map[string]OutcomeCategory `json:"categories"`
	Total      int                        `json:"total"`
	NoData     bool                       `json:"no_data"`
}

// DischargeOutcomes categorizes every discharge, taking the discharges
// collection as authoritative and falling back to babyBackUp status strings
// for babies with no discharge record.
func DischargeOutcomes(discharges []records.DischargeRecord, babies []records.BabyRecord) *OutcomesResult {
	counts := make(map[string]int, len(OutcomeCategories))
	seen := make(map[string]bool, len(discharges))
	total := 0

	for i := range discharges {
		d := &discharges[i]
		seen[d.UID] = true
		counts[CategorizeDischarge(d)]++
		total++
	}
	for i := range babies {
		b := &babies[i]
		if b.Source != store.CollectionBabyBackUp || seen[b.UID] {
			continue
		}
		if b.DischargedStatusString == "" {
			continue
		}
		seen[b.UID] = true
		counts[CategorizeBackup(b)]++
		total++
	}

	res := &OutcomesResult{
		Categories: make(map[string]OutcomeCategory, len(OutcomeCategories)),
		Total:      total,
		NoData:     total == 0,
	}
	for _, cat := range OutcomeCategories {
		res.Categories[cat] = OutcomeCategory{
			Count: counts[cat],
			Pct:   rate(counts[cat], total),
		}
	}
	return res
}
