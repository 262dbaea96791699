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
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cooin-tasks",
	Short: "Cooin daily task client",
	Long:  `Complete daily pigeon tasks for a guaranteed reward. Run without a subcommand for the interactive session.`,
	Args:  cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			console := frontend.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), time.Sleep)
			return frontend.NewTaskClient(a.Service, console, a.Rules).Run(ctx)
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete [address]",
	Short: "Complete the daily task and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), configFile, func(ctx context.Context, a *app.App) error {
			w, err := a.Service.Authenticate(ctx, args[0])
			if err != nil {
				return err
			}
			result, err := a.Service.CompleteDailyTask(ctx, w.Address)
			if err != nil {
				return err
			}
			return app.PrintJSON(cmd.OutOrStdout(), result)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (default ./cooin.{json,yaml})")
	rootCmd.AddCommand(completeCmd)
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
