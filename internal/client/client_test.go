package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/api"
	"github.com/sheikh-saqib/cooin-ledger/internal/client"
	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/fixtures"
	"github.com/sheikh-saqib/cooin-ledger/internal/ledger"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
	"github.com/sheikh-saqib/cooin-ledger/internal/random"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/memory"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func setup(t *testing.T, src random.Source) (*client.Client, *memory.MemoryLedgerStore) {
	return setupWrapped(t, src, func(h http.Handler) http.Handler { return h })
}

func setupWrapped(t *testing.T, src random.Source, wrap func(http.Handler) http.Handler) (*client.Client, *memory.MemoryLedgerStore) {
	t.Helper()
	store := memory.NewMemoryLedgerStore()
	l := ledger.NewLedger(store, ledger.WithRandom(src))

	s, err := api.NewServer(l, api.Options{JWTSecret: []byte("secret")})
	require.NoError(t, err)

	srv := httptest.NewServer(wrap(s.Handler()))
	t.Cleanup(srv.Close)

	return client.New(srv.URL+"/", 5*time.Second), store
}

func TestRegisterMineAndHistory(t *testing.T) {
	c, store := setup(t, random.NewSequence(0.1, 0.5))
	ctx := context.Background()

	n, err := c.WalletCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	w, err := c.Register(ctx)
	require.NoError(t, err)
	assert.True(t, models.ValidAddress(w.Address))

	// fund it behind the service's back
	_, err = store.UpdateWallet(ctx, w.Address, func(w *models.Wallet) error {
		w.Balance = decimal.RequireFromString("0.01")
		return nil
	})
	require.NoError(t, err)

	result, err := ledger.AttemptMining(ctx, c, w.Address)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Balance.Equal(decimal.RequireFromString("1.005")), "balance %s", result.Balance)

	view, err := c.History(ctx, w.Address, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.True(t, view.Entries[1].Latest)

	task, err := c.CompleteDailyTask(ctx, w.Address)
	require.NoError(t, err)
	assert.True(t, task.Balance.Equal(decimal.RequireFromString("1.505")), "balance %s", task.Balance)
}

func TestAuthenticateReusesSession(t *testing.T) {
	c, store := setup(t, random.NewSequence(0.5))
	ctx := context.Background()

	require.NoError(t, store.CreateWallet(ctx, models.NewWallet("abcDEF0123456789")))

	// no session yet
	_, err := c.CompleteDailyTask(ctx, "abcDEF0123456789")
	assert.True(t, errors.Is(err, fault.ErrUnauthorized), "got: %v", err)

	w, err := c.Authenticate(ctx, " abcDEF0123456789 ")
	require.NoError(t, err)
	assert.Equal(t, "abcDEF0123456789", w.Address)

	_, err = c.CompleteDailyTask(ctx, "abcDEF0123456789")
	require.NoError(t, err)
}

// the first task request is applied but its connection is cut before the
// reply; the resend with the same key must not pay again
func TestDailyTaskResentAfterLostReply(t *testing.T) {
	var dropped atomic.Bool
	var requests atomic.Int32
	c, store := setupWrapped(t, random.NewSequence(0.5), func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/tasks") {
				h.ServeHTTP(w, r)
				return
			}
			requests.Add(1)
			if dropped.CompareAndSwap(false, true) {
				h.ServeHTTP(httptest.NewRecorder(), r)
				conn, _, err := w.(http.Hijacker).Hijack()
				if err == nil {
					conn.Close()
				}
				return
			}
			h.ServeHTTP(w, r)
		})
	})
	ctx := context.Background()

	require.NoError(t, store.CreateWallet(ctx, models.NewWallet("abcDEF0123456789")))
	_, err := c.Authenticate(ctx, "abcDEF0123456789")
	require.NoError(t, err)

	result, err := c.CompleteDailyTask(ctx, "abcDEF0123456789")
	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.RequireFromString("0.5")), "balance %s", result.Balance)
	assert.GreaterOrEqual(t, requests.Load(), int32(2))

	w, err := store.GetWallet(ctx, "abcDEF0123456789")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("0.5")), "paid once, balance %s", w.Balance)
}

func TestErrorsComeBackAsValues(t *testing.T) {
	c, store := setup(t, random.NewSequence(0.5))
	ctx := context.Background()

	_, err := c.Authenticate(ctx, "bad")
	assert.True(t, errors.Is(err, fault.ErrInvalidAddress), "got: %v", err)

	_, err = c.Authenticate(ctx, "zzzzzzzzzzzzzzzz")
	assert.True(t, errors.Is(err, fault.ErrWalletNotFound), "got: %v", err)

	require.NoError(t, store.CreateWallet(ctx, models.NewWallet("abcDEF0123456789")))
	_, err = c.Authenticate(ctx, "abcDEF0123456789")
	require.NoError(t, err)

	_, err = c.LaunchFlight(ctx, "abcDEF0123456789")
	assert.True(t, errors.Is(err, fault.ErrInsufficientFunds), "got: %v", err)

	_, err = c.LandFlight(ctx, "unknown")
	assert.True(t, errors.Is(err, fault.ErrFlightNotFound), "got: %v", err)

	_, err = c.History(ctx, "abcDEF0123456789", -3)
	assert.True(t, errors.Is(err, fault.ErrInvalidLimit), "got: %v", err)
}

func TestUnreachableService(t *testing.T) {
	c := client.New("http://127.0.0.1:1", time.Second)
	_, err := c.WalletCount(context.Background())
	assert.Error(t, err)
}
