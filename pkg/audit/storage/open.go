package storage

import (
	"fmt"

	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/config"
)

// Open creates the storage backend selected by cfg.Backend.
func Open(cfg *config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		return NewSQLiteStorage(DefaultSQLiteConfig(cfg.SQLitePath))
	default:
		return nil, audit.NewStorageError(cfg.Backend, "open", fmt.Errorf("unknown backend %q", cfg.Backend))
	}
}
