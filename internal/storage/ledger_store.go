// Package storage opens the configured ledger backend
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sheikh-saqib/cooin-ledger/internal/config"
	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/file"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/leveldb"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/sqlite"
)

// backend names accepted by ledger.backend
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendLevelDB  = "leveldb"
)

// Open returns the LedgerStore named by cfg.Backend
func Open(ctx context.Context, cfg config.LedgerConfig) (interfaces.LedgerStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendFile, "":
		return file.NewStore(cfg.Path)
	case BackendMemory:
		return memory.NewMemoryLedgerStore(), nil
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%w: postgres needs ledger.postgres_dsn", fault.ErrUnknownBackend)
		}
		return postgres.Open(ctx, cfg.PostgresDSN)
	case BackendSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case BackendLevelDB:
		return leveldb.Open(cfg.LevelDBPath)
	default:
		return nil, fmt.Errorf("%w: %q", fault.ErrUnknownBackend, cfg.Backend)
	}
}
