package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/storetest"
)

// set to a scratch database, every table row is deleted between sub-tests
const dsnVariable = "COOIN_TEST_POSTGRES_DSN"

func TestPostgresLedgerStore(t *testing.T) {
	dsn := os.Getenv(dsnVariable)
	if dsn == "" {
		t.Skipf("%s not set", dsnVariable)
	}

	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		ctx := context.Background()
		s, err := postgres.Open(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })

		require.NoError(t, s.Save(ctx, models.NewLedger()))
		return s
	})
}
