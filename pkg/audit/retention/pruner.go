package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"frontmentor/askgate/pkg/audit"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain records.
	// 0 means keep records forever.
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// Pruner deletes audit records older than the retention period.
type Pruner struct {
	storage audit.Storage
	config  Config
	logger  *slog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(storage audit.Storage, config Config) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
		now:     time.Now,
	}
}

// Cutoff returns the time before which records are pruned.
func (p *Pruner) Cutoff() time.Time {
	return p.now().AddDate(0, 0, -p.config.RetentionDays)
}

// Prune deletes records older than the retention period and returns how many
// were removed. It does nothing when RetentionDays is 0.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.Cutoff()
	deleted, err := p.storage.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune by age failed: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("audit records pruned",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
			"cutoff", cutoff,
		)
	}
	return deleted, nil
}
