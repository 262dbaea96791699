package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sheikh-saqib/cooin-ledger/internal/config"
)

// Run loads configuration, starts logging, opens the service and hands it
// to fn, releasing everything afterwards
func Run(ctx context.Context, configFile string, fn func(ctx context.Context, a *App) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := InitLogging(cfg.Logging); err != nil {
		return fmt.Errorf("logger initialise: %w", err)
	}
	defer Finalise()

	a, err := Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// PrintJSON writes v as indented JSON for the scriptable subcommands
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
