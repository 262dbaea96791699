package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/config"
	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/fixtures"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/file"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/leveldb"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/sqlite"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LedgerConfig{
		Path:        filepath.Join(dir, "ledger.json"),
		SQLitePath:  filepath.Join(dir, "ledger.db"),
		LevelDBPath: filepath.Join(dir, "ledger.ldb"),
	}

	cases := []struct {
		backend string
		check   func(t *testing.T, s any)
	}{
		{"", func(t *testing.T, s any) { assert.IsType(t, &file.Store{}, s) }},
		{"file", func(t *testing.T, s any) { assert.IsType(t, &file.Store{}, s) }},
		{"Memory", func(t *testing.T, s any) { assert.IsType(t, &memory.MemoryLedgerStore{}, s) }},
		{"sqlite", func(t *testing.T, s any) { assert.IsType(t, &sqlite.Store{}, s) }},
		{"leveldb", func(t *testing.T, s any) { assert.IsType(t, &leveldb.Store{}, s) }},
	}

	for _, c := range cases {
		t.Run(c.backend, func(t *testing.T) {
			cfg.Backend = c.backend
			s, err := storage.Open(context.Background(), cfg)
			require.NoError(t, err)
			defer s.Close()
			c.check(t, s)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := storage.Open(context.Background(), config.LedgerConfig{Backend: "tape"})
	assert.True(t, errors.Is(err, fault.ErrUnknownBackend), "got: %v", err)
}

func TestOpenPostgresNeedsDSN(t *testing.T) {
	_, err := storage.Open(context.Background(), config.LedgerConfig{Backend: "postgres"})
	assert.True(t, errors.Is(err, fault.ErrUnknownBackend), "got: %v", err)
}
