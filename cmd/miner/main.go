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
	"github.com/sheikh-saqib/cooin-ledger/internal/ledger"
	"github.com/sheikh-saqib/cooin-ledger/internal/random"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cooin-miner",
	Short: "Cooin Proof-of-Flight miner",
	Long:  `Log in with a wallet address and fly mining flights. Run without a subcommand for the interactive session.`,
	Args:  cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			console := frontend.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), time.Sleep)
			miner := frontend.NewMiner(a.Service, console, frontend.MinerOptions{
				Rules:        a.Rules,
				MinDelay:     a.Config.Miner.MinFlightDelay,
				MaxDelay:     a.Config.Miner.MaxFlightDelay,
				HistoryLimit: a.Config.History.DisplayLimit,
				Random:       random.NewSeeded(a.Config.Random.Seed),
			})
			return miner.Run(ctx)
		})
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine [address]",
	Short: "Fly one mining flight and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			w, err := a.Service.Authenticate(ctx, args[0])
			if err != nil {
				return err
			}
			result, err := ledger.AttemptMining(ctx, a.Service, w.Address)
			if err != nil {
				return err
			}
			return app.PrintJSON(cmd.OutOrStdout(), result)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [address]",
	Short: "Print the recent flight score history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			w, err := a.Service.Authenticate(ctx, args[0])
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = a.Config.History.DisplayLimit
			}
			view, err := a.Service.History(ctx, w.Address, limit)
			if err != nil {
				return err
			}
			return app.PrintJSON(cmd.OutOrStdout(), view)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (default ./cooin.{json,yaml})")
	historyCmd.Flags().Int("limit", 0, "number of scores to show (default history.display_limit)")

	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(historyCmd)
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
