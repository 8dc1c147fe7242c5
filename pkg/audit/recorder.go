package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultWriteTimeout bounds a single storage write.
const DefaultWriteTimeout = 5 * time.Second

// RecorderConfig contains configuration for the audit recorder.
type RecorderConfig struct {
	// BufferSize is the size of the async write queue.
	// Default: 256
	BufferSize int

	// WriteTimeout is the timeout for writing one record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// Recorder queues audit records and writes them from a background worker so
// that request handlers never wait on storage.
//
// When the queue is full the record is dropped and counted; an audit log is
// never allowed to slow down or fail a request.
type Recorder struct {
	storage Storage
	config  RecorderConfig
	queue   chan *Record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger

	closeOnce sync.Once
	closed    atomic.Bool
	dropped   atomic.Int64
	written   atomic.Int64
}

// NewRecorder creates a recorder over storage and starts its worker.
func NewRecorder(storage Storage, cfg RecorderConfig) *Recorder {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		queue:   make(chan *Record, cfg.BufferSize),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("audit recorder initialized", "buffer_size", cfg.BufferSize)
	return r
}

// Record enqueues rec for writing. ID and Time are filled in when empty.
//
// It returns immediately. A record that does not fit in the queue is dropped
// and Record returns false.
func (r *Recorder) Record(ctx context.Context, rec *Record) bool {
	if rec == nil {
		return false
	}
	if r.closed.Load() {
		r.dropped.Add(1)
		return false
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	select {
	case r.queue <- rec:
		return true
	default:
		r.dropped.Add(1)
		r.logger.WarnContext(ctx, "audit queue full, dropping record",
			"record_id", rec.ID,
			"capacity", r.config.BufferSize,
		)
		return false
	}
}

// Dropped returns the number of records dropped so far.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns the number of records persisted so far.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Close stops accepting records, drains the queue and waits for the worker.
// It does not close the underlying storage.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.done)
	})
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.queue:
			r.write(rec)
		case <-r.done:
			for {
				select {
				case rec := <-r.queue:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, rec); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", rec.ID,
			"request_id", rec.RequestID,
			"error", err,
		)
		return
	}
	r.written.Add(1)
}
