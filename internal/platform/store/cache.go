package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSnapshot is returned when no snapshot has ever loaded successfully.
var ErrNoSnapshot = errors.New("no snapshot available")

// Cache holds the current snapshot. Readers always see a complete snapshot;
// a failed refresh keeps the previous one current and records the error.
type Cache struct {
	mu          sync.RWMutex
	snap        *Snapshot
	lastErr     error
	lastAttempt time.Time
}

func NewCache() *Cache {
	return &Cache{}
}

// Current returns the active snapshot, or ErrNoSnapshot (wrapping the last
// fetch error, if any) when none has been loaded yet.
func (c *Cache) Current() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		if c.lastErr != nil {
			return nil, errors.Join(ErrNoSnapshot, c.lastErr)
		}
		return nil, ErrNoSnapshot
	}
	return c.snap, nil
}

// Refresh loads a new snapshot and swaps it in wholesale. On failure the
// previous snapshot stays current.
func (c *Cache) Refresh(ctx context.Context, loader *Loader) error {
	snap, err := loader.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAttempt = time.Now().UTC()
	if err != nil {
		c.lastErr = err
		return err
	}
	c.snap = snap
	c.lastErr = nil
	return nil
}

// Status describes the cache for the snapshot endpoint.
type Status struct {
	Loaded      bool       `json:"loaded"`
	Counts      *Counts    `json:"counts,omitempty"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Status{Loaded: c.snap != nil}
	if c.snap != nil {
		counts := c.snap.Counts()
		st.Counts = &counts
	}
	if !c.lastAttempt.IsZero() {
		t := c.lastAttempt
		st.LastAttempt = &t
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}
