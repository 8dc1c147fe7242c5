package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/config"
)

// createTempDB creates a temporary SQLite database for testing.
func createTempDB(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "audit.db")
	storage, err := NewSQLiteStorage(DefaultSQLiteConfig(dbPath))
	if err != nil {
		t.Fatalf("Failed to create SQLite storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	return storage, dbPath
}

// backends runs fn against every storage implementation.
func backends(t *testing.T, fn func(t *testing.T, s audit.Storage)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStorage())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, _ := createTempDB(t)
		fn(t, s)
	})
}

func record(id string, at time.Time) *audit.Record {
	return &audit.Record{
		ID:              id,
		RequestID:       "req-" + id,
		Time:            at,
		ModelUsed:       "gemini-1.5-flash",
		Status:          200,
		Attempts:        2,
		AttemptedModels: []string{"gemini-2.0-pro", "gemini-1.5-flash"},
		LatencyMs:       120,
	}
}

func TestSQLiteStorage_Initialize(t *testing.T) {
	_, dbPath := createTempDB(t)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")

	first, err := NewSQLiteStorage(DefaultSQLiteConfig(dbPath))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Store(context.Background(), record("a", time.Now())); err != nil {
		t.Fatalf("Store: %v", err)
	}
	first.Close()

	second, err := NewSQLiteStorage(DefaultSQLiteConfig(dbPath))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	n, err := second.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count after reopen = %d, want 1", n)
	}
}

func TestNewSQLiteStorage_RequiresPath(t *testing.T) {
	_, err := NewSQLiteStorage(&SQLiteConfig{})

	var se *audit.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *audit.StorageError, got %T", err)
	}
	if se.Operation != "open" {
		t.Errorf("Operation = %q, want open", se.Operation)
	}
}

func TestStorage_StoreAndList(t *testing.T) {
	backends(t, func(t *testing.T, s audit.Storage) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i, id := range []string{"a", "b", "c"} {
			if err := s.Store(ctx, record(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("Store(%s): %v", id, err)
			}
		}

		got, err := s.List(ctx, audit.Query{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("List returned %d records, want 3", len(got))
		}
		if got[0].ID != "c" || got[2].ID != "a" {
			t.Errorf("List order = %s,%s,%s, want newest first", got[0].ID, got[1].ID, got[2].ID)
		}

		r := got[0]
		if !r.Time.Equal(base.Add(2 * time.Minute)) {
			t.Errorf("Time = %v, want %v", r.Time, base.Add(2*time.Minute))
		}
		if r.RequestID != "req-c" || r.ModelUsed != "gemini-1.5-flash" || r.Status != 200 || r.LatencyMs != 120 {
			t.Errorf("unexpected record fields: %+v", r)
		}
		if len(r.AttemptedModels) != 2 || r.AttemptedModels[1] != "gemini-1.5-flash" {
			t.Errorf("AttemptedModels = %v", r.AttemptedModels)
		}
	})
}

func TestStorage_ListFilters(t *testing.T) {
	backends(t, func(t *testing.T, s audit.Storage) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			id := string(rune('a' + i))
			if err := s.Store(ctx, record(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
				t.Fatalf("Store: %v", err)
			}
		}

		tests := []struct {
			name  string
			query audit.Query
			want  []string
		}{
			{"limit", audit.Query{Limit: 2}, []string{"e", "d"}},
			{"since", audit.Query{Since: base.Add(3 * time.Hour)}, []string{"e", "d"}},
			{"since and limit", audit.Query{Since: base.Add(time.Hour), Limit: 1}, []string{"e"}},
			{"since in future", audit.Query{Since: base.Add(24 * time.Hour)}, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.List(ctx, tt.query)
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("List returned %d records, want %d", len(got), len(tt.want))
				}
				for i, id := range tt.want {
					if got[i].ID != id {
						t.Errorf("record %d = %s, want %s", i, got[i].ID, id)
					}
				}
			})
		}
	})
}

func TestStorage_FailureRecord(t *testing.T) {
	backends(t, func(t *testing.T, s audit.Storage) {
		ctx := context.Background()
		r := &audit.Record{
			ID:        "f",
			RequestID: "req-f",
			Time:      time.Now().UTC(),
			Category:  "QUOTA_EXCEEDED",
			Status:    429,
		}
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store: %v", err)
		}

		got, err := s.List(ctx, audit.Query{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("List returned %d records, want 1", len(got))
		}
		if got[0].ModelUsed != "" || got[0].Category != "QUOTA_EXCEEDED" || len(got[0].AttemptedModels) != 0 {
			t.Errorf("unexpected record: %+v", got[0])
		}
		if got[0].Succeeded() {
			t.Error("Succeeded() = true for a failed request")
		}
	})
}

func TestStorage_DeleteBefore(t *testing.T) {
	backends(t, func(t *testing.T, s audit.Storage) {
		ctx := context.Background()
		now := time.Now().UTC()

		for i, age := range []time.Duration{48 * time.Hour, 36 * time.Hour, time.Hour} {
			if err := s.Store(ctx, record(string(rune('a'+i)), now.Add(-age))); err != nil {
				t.Fatalf("Store: %v", err)
			}
		}

		deleted, err := s.DeleteBefore(ctx, now.Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("DeleteBefore: %v", err)
		}
		if deleted != 2 {
			t.Errorf("deleted = %d, want 2", deleted)
		}

		n, err := s.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 1 {
			t.Errorf("Count = %d, want 1", n)
		}
	})
}

func TestMemoryStorage_CopiesRecords(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	r := record("a", time.Now())
	if err := s.Store(ctx, r); err != nil {
		t.Fatalf("Store: %v", err)
	}
	r.AttemptedModels[0] = "mutated"

	got, _ := s.List(ctx, audit.Query{})
	if got[0].AttemptedModels[0] == "mutated" {
		t.Error("stored record shares memory with caller")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuditConfig
		wantErr bool
	}{
		{"memory", config.AuditConfig{Backend: "memory"}, false},
		{"sqlite", config.AuditConfig{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "a.db")}, false},
		{"unknown", config.AuditConfig{Backend: "postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
