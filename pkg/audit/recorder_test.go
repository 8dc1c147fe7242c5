package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/audit/storage"
)

// blockingStorage holds every Store call until release is closed.
type blockingStorage struct {
	*storage.MemoryStorage
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (b *blockingStorage) Store(ctx context.Context, r *audit.Record) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.MemoryStorage.Store(ctx, r)
}

type failingStorage struct {
	*storage.MemoryStorage
}

func (failingStorage) Store(context.Context, *audit.Record) error {
	return audit.NewStorageError("memory", "store", errors.New("disk full"))
}

func TestRecorder_WritesRecords(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := audit.NewRecorder(store, audit.RecorderConfig{BufferSize: 8})

	for i := 0; i < 5; i++ {
		if !rec.Record(context.Background(), &audit.Record{RequestID: "r", Status: 200}) {
			t.Fatalf("Record %d was dropped", i)
		}
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	n, _ := store.Count(context.Background())
	if n != 5 {
		t.Errorf("stored %d records, want 5", n)
	}
	if rec.Written() != 5 {
		t.Errorf("Written() = %d, want 5", rec.Written())
	}
}

func TestRecorder_FillsIDAndTime(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := audit.NewRecorder(store, audit.RecorderConfig{})

	before := time.Now().UTC()
	rec.Record(context.Background(), &audit.Record{RequestID: "r"})
	rec.Close()

	got, _ := store.List(context.Background(), audit.Query{})
	if len(got) != 1 {
		t.Fatalf("stored %d records, want 1", len(got))
	}
	if len(got[0].ID) != 36 {
		t.Errorf("ID = %q, want a UUID", got[0].ID)
	}
	if got[0].Time.Before(before) {
		t.Errorf("Time = %v, want >= %v", got[0].Time, before)
	}
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	store := &blockingStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		release:       make(chan struct{}),
		started:       make(chan struct{}),
	}
	rec := audit.NewRecorder(store, audit.RecorderConfig{BufferSize: 1})

	// First record is picked up by the worker and blocks in Store.
	rec.Record(context.Background(), &audit.Record{RequestID: "1"})
	<-store.started

	// Second fills the queue, third has nowhere to go.
	if !rec.Record(context.Background(), &audit.Record{RequestID: "2"}) {
		t.Fatal("second record should fit in the queue")
	}

	done := make(chan bool)
	go func() {
		done <- rec.Record(context.Background(), &audit.Record{RequestID: "3"})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("third record should have been dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	if rec.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", rec.Dropped())
	}

	close(store.release)
	rec.Close()

	n, _ := store.Count(context.Background())
	if n != 2 {
		t.Errorf("stored %d records, want 2", n)
	}
}

func TestRecorder_StoreErrorIsNotFatal(t *testing.T) {
	rec := audit.NewRecorder(failingStorage{storage.NewMemoryStorage()}, audit.RecorderConfig{})

	if !rec.Record(context.Background(), &audit.Record{RequestID: "r"}) {
		t.Fatal("record should be queued")
	}
	rec.Close()

	if rec.Written() != 0 {
		t.Errorf("Written() = %d, want 0", rec.Written())
	}
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	rec := audit.NewRecorder(storage.NewMemoryStorage(), audit.RecorderConfig{})
	rec.Close()
	rec.Close()

	if rec.Record(context.Background(), &audit.Record{}) {
		t.Error("Record after Close should be dropped")
	}
	if rec.Record(context.Background(), nil) {
		t.Error("nil record should be rejected")
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("locked")
	err := audit.NewStorageError("sqlite", "store", cause)

	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	want := "audit storage error [sqlite] during store: locked"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
