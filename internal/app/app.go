// Package app wires configuration into a running wallet service for the
// command line programs
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/sheikh-saqib/cooin-ledger/internal/client"
	"github.com/sheikh-saqib/cooin-ledger/internal/config"
	"github.com/sheikh-saqib/cooin-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/cooin-ledger/internal/events/logging"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/ledger"
	"github.com/sheikh-saqib/cooin-ledger/internal/random"
	"github.com/sheikh-saqib/cooin-ledger/internal/reward"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage"
)

// App is an opened service with everything it holds open
type App struct {
	Config  *config.Configuration
	Rules   reward.Rules
	Service interfaces.WalletService
	Ledger  *ledger.Ledger // nil when the service is remote

	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher
}

// InitLogging starts the logger; call Finalise on exit
func InitLogging(cfg config.LoggingConfig) error {
	if cfg.Directory != "" {
		if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	return logger.Initialise(cfg.LoggerConfiguration())
}

// Finalise flushes and stops the logger
func Finalise() {
	logger.Finalise()
}

// NewPublisher returns the Kafka publisher when brokers are configured and
// the log publisher otherwise
func NewPublisher(cfg config.KafkaConfig) interfaces.EventPublisher {
	if len(cfg.Brokers) != 0 {
		return kafka.NewPublisher(cfg.Brokers)
	}
	return logging.NewPublisher()
}

// Open returns the remote service when client.server_url is set, otherwise
// a ledger over the configured store
func Open(ctx context.Context, cfg *config.Configuration) (*App, error) {
	rules, err := cfg.Rewards.Rules()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Rules:  rules,
	}

	if url := strings.TrimSpace(cfg.Client.ServerURL); url != "" {
		a.Service = client.New(url, cfg.Client.Timeout)
		return a, nil
	}

	a.store, err = storage.Open(ctx, cfg.Ledger)
	if err != nil {
		return nil, err
	}
	a.publisher = NewPublisher(cfg.Kafka)

	a.Ledger = ledger.NewLedger(a.store,
		ledger.WithRules(rules),
		ledger.WithRandom(random.NewSeeded(cfg.Random.Seed)),
		ledger.WithPublisher(a.publisher),
		ledger.WithFlightTTL(cfg.Server.FlightTTL),
		ledger.WithHistoryLimit(cfg.History.DisplayLimit),
	)
	a.Service = a.Ledger
	return a, nil
}

// Remote reports whether the service is the ledger service client
func (a *App) Remote() bool {
	return a.Ledger == nil
}

// LedgerFile is the JSON ledger path when the local file backend is in use
func (a *App) LedgerFile() (string, bool) {
	if a.Remote() {
		return "", false
	}
	backend := strings.ToLower(strings.TrimSpace(a.Config.Ledger.Backend))
	if backend != storage.BackendFile && backend != "" {
		return "", false
	}
	return a.Config.Ledger.Path, true
}

func (a *App) Close() error {
	var firstErr error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
