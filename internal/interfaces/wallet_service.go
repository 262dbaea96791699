package interfaces

import (
	"context"

	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// WalletService is everything a front-end needs. It is served in-process by
// the ledger or remotely by the ledger service client
type WalletService interface {
	WalletCount(ctx context.Context) (int, error)
	Register(ctx context.Context) (*models.Wallet, error)
	Authenticate(ctx context.Context, address string) (*models.Wallet, error)
	LaunchFlight(ctx context.Context, address string) (*models.Flight, error)
	LandFlight(ctx context.Context, flightID string) (*models.MiningResult, error)
	CompleteDailyTask(ctx context.Context, address string) (*models.TaskResult, error)
	History(ctx context.Context, address string, limit int) (*models.HistoryView, error)
}
