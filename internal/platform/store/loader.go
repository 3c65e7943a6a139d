package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Loader builds a Snapshot from a Source. A snapshot is all-or-nothing: if
// any collection fails to fetch, no snapshot is produced — metrics must never
// be computed over a partial read disguised as complete.
type Loader struct {
	src                  Source
	logger               zerolog.Logger
	excludeTestHospitals bool
}

func NewLoader(src Source, logger zerolog.Logger, excludeTestHospitals bool) *Loader {
	return &Loader{src: src, logger: logger, excludeTestHospitals: excludeTestHospitals}
}

// Load fetches all three collections and returns a consistent snapshot.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	babies, err := l.src.Fetch(ctx, CollectionBaby)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	backups, err := l.src.Fetch(ctx, CollectionBabyBackUp)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	discharges, err := l.src.Fetch(ctx, CollectionDischarges)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if l.excludeTestHospitals {
		babies = dropTestHospitals(babies)
		backups = dropTestHospitals(backups)
	}

	snap := &Snapshot{
		Babies:       babies,
		BackupBabies: backups,
		Discharges:   discharges,
		FetchedAt:    time.Now().UTC(),
	}

	l.logger.Info().
		Int("babies", len(babies)).
		Int("backup_babies", len(backups)).
		Int("discharges", len(discharges)).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot loaded")

	return snap, nil
}

// dropTestHospitals removes records from hospitals used for training and
// demos, which would otherwise distort every rate on the dashboard.
func dropTestHospitals(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		name, _ := doc["hospitalName"].(string)
		if name != "" && isTestHospital(name) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func isTestHospital(name string) bool {
	lower := strings.ToLower(name)
	for _, term := range []string{"test", "training", "demo"} {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
