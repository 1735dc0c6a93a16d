package store

import (
	"fmt"

	"github.com/pollagents/pollagents/internal/config"
)

// NewFromConfig selects and constructs the storage backend once at
// startup. The rest of the application only sees the Repository
// interface.
func NewFromConfig(cfg *config.Config) (Repository, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return NewSQLite(cfg.DBPath)
	case config.BackendJSON:
		return NewJSONFile(cfg.DataPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
