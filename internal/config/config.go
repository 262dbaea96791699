// Package config loads the settings shared by the server and the front-ends
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
)

// EnvPrefix is prepended to every environment override, e.g.
// COOIN_LEDGER_BACKEND=sqlite
const EnvPrefix = "COOIN"

type Configuration struct {
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Rewards RewardsConfig `mapstructure:"rewards"`
	Miner   MinerConfig   `mapstructure:"miner"`
	History HistoryConfig `mapstructure:"history"`
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Random  RandomConfig  `mapstructure:"random"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LedgerConfig selects and locates the ledger backend
type LedgerConfig struct {
	Backend     string `mapstructure:"backend"` // file, memory, postgres, sqlite or leveldb
	Path        string `mapstructure:"path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	LevelDBPath string `mapstructure:"leveldb_path"`
}

// RewardsConfig holds amounts as strings so they parse exactly
type RewardsConfig struct {
	MineCost            string  `mapstructure:"mine_cost"`
	BaseMineReward      string  `mapstructure:"base_mine_reward"`
	RewardSpread        float64 `mapstructure:"reward_spread"`
	FlightScoreIncrease string  `mapstructure:"flight_score_increase"`
	BaseSuccessChance   float64 `mapstructure:"base_success_chance"`
	MaxSuccessChance    float64 `mapstructure:"max_success_chance"`
	ScoreBonusDivisor   float64 `mapstructure:"score_bonus_divisor"`
	DailyTaskReward     string  `mapstructure:"daily_task_reward"`
}

type MinerConfig struct {
	MinFlightDelay time.Duration `mapstructure:"min_flight_delay"`
	MaxFlightDelay time.Duration `mapstructure:"max_flight_delay"`
}

type HistoryConfig struct {
	DisplayLimit int `mapstructure:"display_limit"`
}

type ServerConfig struct {
	Listen    string        `mapstructure:"listen"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	RateLimit float64       `mapstructure:"rate_limit"` // flights per second per wallet
	RateBurst int           `mapstructure:"rate_burst"`
	MaxWait   time.Duration `mapstructure:"max_wait"`
	FlightTTL time.Duration `mapstructure:"flight_ttl"`
}

// ClientConfig - when ServerURL is set the front-ends talk to the ledger
// service instead of opening the store themselves
type ClientConfig struct {
	ServerURL string        `mapstructure:"server_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type RandomConfig struct {
	Seed int64 `mapstructure:"seed"`
}

type LoggingConfig struct {
	Directory string `mapstructure:"directory"`
	File      string `mapstructure:"file"`
	Size      int    `mapstructure:"size"`
	Count     int    `mapstructure:"count"`
	Console   bool   `mapstructure:"console"`
	Level     string `mapstructure:"level"`
}

// Load reads .env (if present), then the config file, then COOIN_*
// environment overrides. An empty fileName searches for cooin.{json,yaml}
// in the working directory and tolerates its absence
func Load(fileName string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fileName != "" {
		v.SetConfigFile(fileName)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("cooin")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding configuration: %w", err)
	}
	if _, err := cfg.Rewards.Rules(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides are seen by
// Unmarshal
func setDefaults(v *viper.Viper) {
	defaults := reward.DefaultRules()

	v.SetDefault("ledger.backend", "file")
	v.SetDefault("ledger.path", "cooin_ledger.json")
	v.SetDefault("ledger.postgres_dsn", "")
	v.SetDefault("ledger.sqlite_path", "cooin_ledger.db")
	v.SetDefault("ledger.leveldb_path", "cooin_ledger.ldb")

	v.SetDefault("rewards.mine_cost", defaults.MineCost.String())
	v.SetDefault("rewards.base_mine_reward", defaults.BaseMineReward.String())
	v.SetDefault("rewards.reward_spread", defaults.RewardSpread)
	v.SetDefault("rewards.flight_score_increase", defaults.FlightScoreIncrease.String())
	v.SetDefault("rewards.base_success_chance", defaults.BaseSuccessChance)
	v.SetDefault("rewards.max_success_chance", defaults.MaxSuccessChance)
	v.SetDefault("rewards.score_bonus_divisor", defaults.ScoreBonusDivisor)
	v.SetDefault("rewards.daily_task_reward", defaults.DailyTaskReward.String())

	v.SetDefault("miner.min_flight_delay", 3*time.Second)
	v.SetDefault("miner.max_flight_delay", 5*time.Second)

	v.SetDefault("history.display_limit", 5)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", 24*time.Hour)
	v.SetDefault("server.rate_limit", 1.0)
	v.SetDefault("server.rate_burst", 3)
	v.SetDefault("server.max_wait", 2*time.Second)
	v.SetDefault("server.flight_ttl", 2*time.Minute)

	v.SetDefault("client.server_url", "")
	v.SetDefault("client.timeout", 30*time.Second)

	v.SetDefault("kafka.brokers", []string{})

	v.SetDefault("random.seed", 0)

	v.SetDefault("logging.directory", "log")
	v.SetDefault("logging.file", "cooin.log")
	v.SetDefault("logging.size", 1048576)
	v.SetDefault("logging.count", 10)
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.level", "info")
}

// Rules converts the configured economics into reward rules
func (r RewardsConfig) Rules() (reward.Rules, error) {
	rules := reward.Rules{
		RewardSpread:      r.RewardSpread,
		BaseSuccessChance: r.BaseSuccessChance,
		MaxSuccessChance:  r.MaxSuccessChance,
		ScoreBonusDivisor: r.ScoreBonusDivisor,
	}

	amounts := []struct {
		name  string
		value string
		dest  *decimal.Decimal
	}{
		{"mine_cost", r.MineCost, &rules.MineCost},
		{"base_mine_reward", r.BaseMineReward, &rules.BaseMineReward},
		{"flight_score_increase", r.FlightScoreIncrease, &rules.FlightScoreIncrease},
		{"daily_task_reward", r.DailyTaskReward, &rules.DailyTaskReward},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.value)
		if err != nil {
			return reward.Rules{}, fmt.Errorf("rewards.%s: %w", a.name, err)
		}
		if d.IsNegative() {
			return reward.Rules{}, fmt.Errorf("rewards.%s: must not be negative", a.name)
		}
		*a.dest = d
	}
	return rules, nil
}

// LoggerConfiguration maps the logging section onto the logger package
func (l LoggingConfig) LoggerConfiguration() logger.Configuration {
	return logger.Configuration{
		Directory: l.Directory,
		File:      l.File,
		Size:      l.Size,
		Count:     l.Count,
		Console:   l.Console,
		Levels: map[string]string{
			logger.DefaultTag: l.Level,
		},
	}
}
