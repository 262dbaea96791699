package app_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/api"
	"github.com/sheikh-saqib/cooin-ledger/internal/app"
	"github.com/sheikh-saqib/cooin-ledger/internal/client"
	"github.com/sheikh-saqib/cooin-ledger/internal/config"
	"github.com/sheikh-saqib/cooin-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/cooin-ledger/internal/events/logging"
	"github.com/sheikh-saqib/cooin-ledger/internal/fixtures"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func testConfig(t *testing.T) *config.Configuration {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Ledger.Path = filepath.Join(t.TempDir(), "cooin_ledger.json")
	return cfg
}

func TestOpenLocalFileLedger(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := app.Open(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Remote())
	path, ok := a.LedgerFile()
	assert.True(t, ok)
	assert.Equal(t, cfg.Ledger.Path, path)

	w, err := a.Service.Register(ctx)
	require.NoError(t, err)

	_, err = os.Stat(cfg.Ledger.Path)
	assert.NoError(t, err, "register saves immediately")

	got, err := a.Service.Authenticate(ctx, w.Address)
	require.NoError(t, err)
	assert.True(t, w.Equal(got))
}

func TestOpenMemoryHasNoLedgerFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ledger.Backend = "memory"

	a, err := app.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	_, ok := a.LedgerFile()
	assert.False(t, ok)
}

func TestOpenRemote(t *testing.T) {
	// a local app serves the remote one
	serverApp, err := app.Open(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer serverApp.Close()

	s, err := api.NewServer(serverApp.Service, api.Options{JWTSecret: []byte("secret")})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Client.ServerURL = srv.URL
	a, err := app.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Remote())
	assert.IsType(t, &client.Client{}, a.Service)
	_, ok := a.LedgerFile()
	assert.False(t, ok)

	w, err := a.Service.Register(context.Background())
	require.NoError(t, err)

	n, err := serverApp.Service.WalletCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = serverApp.Service.Authenticate(context.Background(), w.Address)
	assert.NoError(t, err)
}

func TestOpenBadRewards(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rewards.MineCost = "free"
	_, err := app.Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, &logging.Publisher{}, app.NewPublisher(config.KafkaConfig{}))

	p := app.NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.IsType(t, &kafka.Publisher{}, p)
	assert.NoError(t, p.Close())
}
