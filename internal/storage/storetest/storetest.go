// Package storetest is the behaviour every LedgerStore backend must share
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// Factory returns a new empty store; it is called once per sub-test
type Factory func(t *testing.T) interfaces.LedgerStore

// SampleLedger is a ledger with enough variety to catch lossy encodings
func SampleLedger() *models.Ledger {
	l := models.NewLedger()

	a := models.NewWallet("abcDEF0123456789")
	a.Balance = decimal.RequireFromString("12.34567891")
	a.FlightScore = decimal.RequireFromString("1.02")
	a.History = []decimal.Decimal{
		decimal.RequireFromString("1"),
		decimal.RequireFromString("1.01"),
		decimal.RequireFromString("1.02"),
	}
	l.Wallets[a.Address] = a

	b := models.NewWallet("Zz9Yy8Xx7Ww6Vv5U")
	b.Balance = decimal.RequireFromString("0.005")
	l.Wallets[b.Address] = b

	// an empty history is kept as empty, not backfilled
	c := models.NewWallet("mNoP4q5R6s7T8u9V")
	c.History = []decimal.Decimal{}
	l.Wallets[c.Address] = c

	return l
}

// Run executes the shared behaviour against a backend
func Run(t *testing.T, newStore Factory) {
	t.Run("empty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, l.Wallets)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		_, err = s.GetWallet(ctx, "abcDEF0123456789")
		assert.True(t, errors.Is(err, fault.ErrWalletNotFound), "got: %v", err)
	})

	t.Run("round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		expected := SampleLedger()

		require.NoError(t, s.Save(ctx, expected))
		actual, err := s.Load(ctx)
		require.NoError(t, err)
		assert.True(t, expected.Equal(actual), "expected %+v got %+v", expected.Wallets, actual.Wallets)

		empty := actual.Wallets["mNoP4q5R6s7T8u9V"]
		require.NotNil(t, empty)
		assert.NotNil(t, empty.History)
		assert.Empty(t, empty.History)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(expected.Wallets), n)
	})

	t.Run("save replaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, SampleLedger()))
		replacement := models.NewLedger()
		w := models.NewWallet("QQQQQQQQQQQQQQQ1")
		replacement.Wallets[w.Address] = w
		require.NoError(t, s.Save(ctx, replacement))

		actual, err := s.Load(ctx)
		require.NoError(t, err)
		assert.True(t, replacement.Equal(actual))
	})

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		w := models.NewWallet("abcDEF0123456789")

		require.NoError(t, s.CreateWallet(ctx, w))
		err := s.CreateWallet(ctx, w)
		assert.True(t, errors.Is(err, fault.ErrWalletExists), "got: %v", err)

		got, err := s.GetWallet(ctx, w.Address)
		require.NoError(t, err)
		assert.True(t, w.Equal(got))
	})

	t.Run("update", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		w := models.NewWallet("abcDEF0123456789")
		require.NoError(t, s.CreateWallet(ctx, w))

		updated, err := s.UpdateWallet(ctx, w.Address, func(w *models.Wallet) error {
			w.Balance = w.Balance.Add(decimal.RequireFromString("0.5"))
			return nil
		})
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(decimal.RequireFromString("0.5")))

		got, err := s.GetWallet(ctx, w.Address)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("0.5")))
	})

	t.Run("failed update changes nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		w := models.NewWallet("abcDEF0123456789")
		require.NoError(t, s.CreateWallet(ctx, w))

		_, err := s.UpdateWallet(ctx, w.Address, func(w *models.Wallet) error {
			w.Balance = decimal.NewFromInt(100)
			return fault.ErrInsufficientFunds
		})
		assert.True(t, errors.Is(err, fault.ErrInsufficientFunds))

		got, err := s.GetWallet(ctx, w.Address)
		require.NoError(t, err)
		assert.True(t, got.Balance.IsZero())

		_, err = s.UpdateWallet(ctx, "QQQQQQQQQQQQQQQ1", func(*models.Wallet) error { return nil })
		assert.True(t, errors.Is(err, fault.ErrWalletNotFound), "got: %v", err)
	})

	t.Run("concurrent updates", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		w := models.NewWallet("abcDEF0123456789")
		require.NoError(t, s.CreateWallet(ctx, w))

		ConcurrentIncrements(t, []interfaces.LedgerStore{s}, w.Address, 20)
	})
}

// ConcurrentIncrements adds 1 to the wallet balance n times spread across
// the stores and checks that no increment was lost
func ConcurrentIncrements(t *testing.T, stores []interfaces.LedgerStore, address string, n int) {
	ctx := context.Background()
	one := decimal.NewFromInt(1)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(s interfaces.LedgerStore) {
			defer wg.Done()
			_, err := s.UpdateWallet(ctx, address, func(w *models.Wallet) error {
				w.Balance = w.Balance.Add(one)
				return nil
			})
			errs <- err
		}(stores[i%len(stores)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := stores[0].GetWallet(ctx, address)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(int64(n))), fmt.Sprintf("balance %s after %d increments", got.Balance, n))
}
