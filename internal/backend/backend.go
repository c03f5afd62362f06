// Package backend selects and constructs the durable key-value storage
// implementation from configuration.
package backend

import (
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/kv"
	applog "fintrack/internal/log"
)

// Type identifies a storage backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	FileBackend   Type = "file"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Open creates the kv store named by the config. Callers own the returned
// store and must Close it.
func Open(cfg *config.Config, logger *applog.Logger) (kv.Store, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentKV)

	t := Type(cfg.DataBackend)
	switch t {
	case SQLiteBackend:
		s, err := kv.NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return s, nil
	case FileBackend:
		s, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return s, nil
	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", t)
	}
}
