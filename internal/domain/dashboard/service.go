// Package dashboard exposes the KPI aggregates over HTTP. The service layer
// turns the raw snapshot into decoded, filtered record views; the handler
// maps them onto the metric endpoints the dashboard UI calls.
package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
	"github.com/anshcare/kmc-dashboard/internal/platform/store"
)

// View is a decoded, filtered look at the current snapshot.
type View struct {
	Babies     []records.BabyRecord
	Discharges []records.DischargeRecord
	FetchedAt  time.Time
	BabyMerge  records.MergeStats
	DischMerge records.MergeStats
}

type Service struct {
	cache  *store.Cache
	loader *store.Loader
	logger zerolog.Logger
}

func NewService(cache *store.Cache, loader *store.Loader, logger zerolog.Logger) *Service {
	return &Service{cache: cache, loader: loader, logger: logger}
}

// View decodes the current snapshot and applies the filter. Returns the
// cache's error when no snapshot has loaded yet.
func (s *Service) View(f records.Filter) (*View, error) {
	snap, err := s.cache.Current()
	if err != nil {
		return nil, err
	}

	babies, babyStats := records.MergeBabies(snap.Babies, snap.BackupBabies)
	discharges, dischStats := records.DecodeDischarges(snap.Discharges)

	return &View{
		Babies:     f.ApplyBabies(babies),
		Discharges: f.ApplyDischarges(discharges),
		FetchedAt:  snap.FetchedAt,
		BabyMerge:  babyStats,
		DischMerge: dischStats,
	}, nil
}

// Refresh reloads the snapshot on demand.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.cache.Refresh(ctx, s.loader); err != nil {
		s.logger.Error().Err(err).Msg("on-demand snapshot refresh failed")
		return err
	}
	return nil
}

// Status reports the snapshot cache state.
func (s *Service) Status() store.Status {
	return s.cache.Status()
}
