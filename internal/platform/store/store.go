// Package store reads the clinical record collections owned by the upstream
// data-entry system. This service never writes to them: a refresh fetches all
// collections at once and publishes the result as an immutable Snapshot.
package store

import (
	"context"
	"errors"
	"time"
)

// Collection names as they exist in the upstream record store.
const (
	CollectionBaby       = "baby"
	CollectionBabyBackUp = "babyBackUp"
	CollectionDischarges = "discharges"
)

// ErrUnknownCollection is returned by a Source when asked for a collection it
// does not serve.
var ErrUnknownCollection = errors.New("unknown collection")

// Document is one record from the upstream store, a loosely-typed field map.
type Document map[string]interface{}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Source fetches one collection as an ordered document sequence.
type Source interface {
	Fetch(ctx context.Context, collection string) ([]Document, error)
}

// Snapshot holds the record collections as of a single fetch cycle. It is
// immutable once published; a refresh builds a new Snapshot and swaps it in
// wholesale.
type Snapshot struct {
	Babies       []Document
	BackupBabies []Document
	Discharges   []Document
	FetchedAt    time.Time
}

// Counts summarizes the snapshot for status endpoints and logs.
type Counts struct {
	Babies       int       `json:"babies"`
	BackupBabies int       `json:"backup_babies"`
	Discharges   int       `json:"discharges"`
	FetchedAt    time.Time `json:"fetched_at"`
}

func (s *Snapshot) Counts() Counts {
	return Counts{
		Babies:       len(s.Babies),
		BackupBabies: len(s.BackupBabies),
		Discharges:   len(s.Discharges),
		FetchedAt:    s.FetchedAt,
	}
}
