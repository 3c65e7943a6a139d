package records

import "github.com/anshcare/kmc-dashboard/internal/platform/store"

// MergeStats tallies what merging excluded so callers can report it.
type MergeStats struct {
	MissingUID int `json:"missing_uid"`
	Duplicates int `json:"duplicates"`
}

// MergeBabies decodes and deduplicates the live and backup baby collections.
// Live records win on UID collision: the live document is the one still being
// edited, the backup is a point-in-time archive.
func MergeBabies(babies, backups []store.Document) ([]BabyRecord, MergeStats) {
	var stats MergeStats
	seen := make(map[string]bool, len(babies)+len(backups))
	out := make([]BabyRecord, 0, len(babies)+len(backups))

	add := func(docs []store.Document, source string) {
		for _, doc := range docs {
			rec := DecodeBaby(doc, source)
			if rec.UID == "" {
				stats.MissingUID++
				continue
			}
			if seen[rec.UID] {
				stats.Duplicates++
				continue
			}
			seen[rec.UID] = true
			out = append(out, rec)
		}
	}
	add(babies, store.CollectionBaby)
	add(backups, store.CollectionBabyBackUp)
	return out, stats
}

// DecodeDischarges decodes the discharges collection, keeping the first
// record per UID.
func DecodeDischarges(docs []store.Document) ([]DischargeRecord, MergeStats) {
	var stats MergeStats
	seen := make(map[string]bool, len(docs))
	out := make([]DischargeRecord, 0, len(docs))
	for _, doc := range docs {
		rec := DecodeDischarge(doc)
		if rec.UID == "" {
			stats.MissingUID++
			continue
		}
		if seen[rec.UID] {
			stats.Duplicates++
			continue
		}
		seen[rec.UID] = true
		out = append(out, rec)
	}
	return out, stats
}
