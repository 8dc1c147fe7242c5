package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"frontmentor/askgate/pkg/audit"
)

// MemoryStorage keeps records in process memory. Records are lost on restart.
type MemoryStorage struct {
	records []*audit.Record
	mu      sync.RWMutex
}

var _ audit.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	if err := ctx.Err(); err != nil {
		return audit.NewStorageError("memory", "store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, copyRecord(record))
	return nil
}

// List returns records matching q, newest first.
func (s *MemoryStorage) List(ctx context.Context, q audit.Query) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*audit.Record, 0, len(s.records))
	for _, r := range s.records {
		if !q.Since.IsZero() && r.Time.Before(q.Since) {
			continue
		}
		results = append(results, copyRecord(r))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Time.After(results[j].Time)
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// DeleteBefore removes records older than cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.Time.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	clear(s.records[len(kept):])
	s.records = kept
	return deleted, nil
}

// Close is a no-op for memory storage.
func (s *MemoryStorage) Close() error {
	return nil
}

func copyRecord(r *audit.Record) *audit.Record {
	c := *r
	if r.AttemptedModels != nil {
		c.AttemptedModels = append([]string(nil), r.AttemptedModels...)
	}
	return &c
}
