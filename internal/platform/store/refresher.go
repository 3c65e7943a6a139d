package store

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher reloads the snapshot cache on a cron schedule, replacing the
// reactive re-execution the dashboard UI used to rely on.
type Refresher struct {
	cache   *Cache
	loader  *Loader
	logger  zerolog.Logger
	cron    *cron.Cron
	timeout time.Duration
}

func NewRefresher(cache *Cache, loader *Loader, logger zerolog.Logger) *Refresher {
	return &Refresher{
		cache:   cache,
		loader:  loader,
		logger:  logger,
		cron:    cron.New(),
		timeout: 2 * time.Minute,
	}
}

// Start schedules refreshes. The schedule accepts standard cron expressions
// and descriptors like "@every 5m".
func (r *Refresher) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, r.runOnce)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	r.logger.Info().Str("schedule", schedule).Msg("snapshot refresher started")
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.cache.Refresh(ctx, r.loader); err != nil {
		r.logger.Error().Err(err).Msg("scheduled snapshot refresh failed")
	}
}
