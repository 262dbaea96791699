package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/cooin-ledger/internal/app"
	"github.com/sheikh-saqib/cooin-ledger/internal/frontend"
	"github.com/sheikh-saqib/cooin-ledger/internal/storage/file"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cooin-wallet",
	Short: "Cooin wallet client",
	Long:  `Register wallets and check their balance and flight score. Run without a subcommand for the interactive session.`,
	Args:  cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			console := frontend.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), time.Sleep)
			return frontend.NewWalletClient(a.Service, console, a.Rules).Run(ctx)
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new wallet and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			w, err := a.Service.Register(ctx)
			if err != nil {
				return err
			}
			return app.PrintJSON(cmd.OutOrStdout(), w)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [address]",
	Short: "Print a wallet's balance and flight score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			w, err := a.Service.Authenticate(ctx, args[0])
			if err != nil {
				return err
			}
			return app.PrintJSON(cmd.OutOrStdout(), w)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [address]",
	Short: "Show a wallet and redraw it whenever the ledger file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			path, ok := a.LedgerFile()
			if !ok {
				return fmt.Errorf("watch needs the local file ledger backend")
			}

			w, err := a.Service.Authenticate(ctx, args[0])
			if err != nil {
				return err
			}

			changed := make(chan struct{}, 1)
			go func() {
				defer close(changed)
				err := file.Watch(ctx, path, func() {
					select {
					case changed <- struct{}{}:
					default:
					}
				})
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}()

			console := frontend.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), time.Sleep)
			return frontend.Watch(ctx, a.Service, console, a.Rules, w.Address, changed)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (default ./cooin.{json,yaml})")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
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
