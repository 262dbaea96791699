package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/config"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Ledger.Backend)
	assert.Equal(t, "cooin_ledger.json", cfg.Ledger.Path)
	assert.Equal(t, 5, cfg.History.DisplayLimit)
	assert.Equal(t, 3*time.Second, cfg.Miner.MinFlightDelay)
	assert.Equal(t, 5*time.Second, cfg.Miner.MaxFlightDelay)
	assert.Empty(t, cfg.Client.ServerURL)
	assert.Empty(t, cfg.Kafka.Brokers)

	rules, err := cfg.Rewards.Rules()
	require.NoError(t, err)
	assert.Equal(t, reward.DefaultRules(), rules)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("COOIN_LEDGER_BACKEND", "sqlite")
	t.Setenv("COOIN_SERVER_TOKEN_TTL", "90m")
	t.Setenv("COOIN_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("COOIN_REWARDS_DAILY_TASK_REWARD", "0.75")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Server.TokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)

	rules, err := cfg.Rewards.Rules()
	require.NoError(t, err)
	assert.True(t, rules.DailyTaskReward.Equal(decimal.RequireFromString("0.75")))
}

func TestLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cooin.yaml")
	content := `
ledger:
  backend: leveldb
  leveldb_path: /tmp/cooin.ldb
history:
  display_limit: 8
random:
  seed: 42
`
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))

	cfg, err := config.Load(name)
	require.NoError(t, err)

	assert.Equal(t, "leveldb", cfg.Ledger.Backend)
	assert.Equal(t, "/tmp/cooin.ldb", cfg.Ledger.LevelDBPath)
	assert.Equal(t, 8, cfg.History.DisplayLimit)
	assert.Equal(t, int64(42), cfg.Random.Seed)
	// untouched sections keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Listen)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadRejectsBadAmount(t *testing.T) {
	t.Setenv("COOIN_REWARDS_MINE_COST", "cheap")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestRulesRejectNegative(t *testing.T) {
	r := config.RewardsConfig{
		MineCost:            "-1",
		BaseMineReward:      "1",
		FlightScoreIncrease: "0.01",
		DailyTaskReward:     "0.5",
	}
	_, err := r.Rules()
	assert.Error(t, err)
}

func TestLoggerConfiguration(t *testing.T) {
	l := config.LoggingConfig{
		Directory: "log",
		File:      "cooin.log",
		Size:      100,
		Count:     2,
		Level:     "debug",
	}
	c := l.LoggerConfiguration()
	assert.Equal(t, "log", c.Directory)
	assert.Equal(t, map[string]string{logger.DefaultTag: "debug"}, c.Levels)
}
