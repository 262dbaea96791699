package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/cooin-ledger/internal/api"
	"github.com/sheikh-saqib/cooin-ledger/internal/app"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cooin-server",
	Short: "Cooin ledger service",
	Long:  `Serve the wallet ledger over HTTP so miners, task clients and wallets on other machines share one ledger.`,
	Args:  cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			if a.Remote() {
				return errors.New("the server needs a local ledger backend, unset client.server_url")
			}

			cfg := a.Config.Server
			server, err := api.NewServer(a.Service, api.Options{
				JWTSecret: []byte(cfg.JWTSecret),
				TokenTTL:  cfg.TokenTTL,
				RateLimit: cfg.RateLimit,
				RateBurst: cfg.RateBurst,
				MaxWait:   cfg.MaxWait,
				FlightTTL: cfg.FlightTTL,
			})
			if err != nil {
				return err
			}

			err = server.ListenAndServe(ctx, cfg.Listen)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (default ./cooin.{json,yaml})")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
