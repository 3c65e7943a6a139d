package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// fetchLimits is the retry ladder: a full fetch first, then progressively
// smaller batches when the upstream times out. The network links at some
// hospital sites are slow enough that the full read regularly fails.
var fetchLimits = []int{0, 100, 50, 20, 20}

// PGSource reads record collections from Postgres, where each upstream
// document is mirrored as a JSONB row:
//
//	CREATE TABLE records (
//	    collection text NOT NULL,
//	    seq        bigint NOT NULL,
//	    doc        jsonb NOT NULL,
//	    PRIMARY KEY (collection, seq)
//	);
type PGSource struct {
	pool  *pgxpool.Pool
	table string
}

func NewPGSource(pool *pgxpool.Pool, table string) *PGSource {
	if table == "" {
		table = "records"
	}
	return &PGSource{pool: pool, table: table}
}

// Fetch returns the collection's documents in seq order. Timeout-like errors
// are retried with exponential backoff and shrinking batch limits; any other
// error fails immediately.
func (s *PGSource) Fetch(ctx context.Context, collection string) ([]Document, error) {
	switch collection {
	case CollectionBaby, CollectionBabyBackUp, CollectionDischarges:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	var lastErr error
	for attempt, limit := range fetchLimits {
		if attempt > 0 {
			delay := min(time.Duration(1<<attempt)*time.Second, 10*time.Second)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		docs, err := s.fetchOnce(ctx, collection, limit)
		if err == nil {
			return docs, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", collection, lastErr)
}

func (s *PGSource) fetchOnce(ctx context.Context, collection string, limit int) ([]Document, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE collection = $1 ORDER BY seq`, s.table)
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc := Document{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// isRetryable classifies transient upstream failures worth another attempt.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "deadline", "retry", "connection reset", "broken pipe", "too many connections"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
