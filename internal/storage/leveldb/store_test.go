package leveldb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/leveldb"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/storetest"
)

func TestLevelDBStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		s, err := leveldb.Open(filepath.Join(t.TempDir(), "cooin.ldb"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestReopenKeepsWallets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooin.ldb")
	ctx := context.Background()

	s, err := leveldb.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, storetest.SampleLedger()))
	require.NoError(t, s.Close())

	s, err = leveldb.Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, storetest.SampleLedger().Equal(got))
}
