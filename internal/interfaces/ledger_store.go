//go:generate mockgen -source=ledger_store.go -destination=../mocks/ledger_store.go -package=mocks

package interfaces

import (
	"context"

	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// LedgerStore persists the wallet map. Load and Save work on the whole
// ledger; the wallet methods exist so backends can serialize concurrent
// writers instead of letting the last save win
type LedgerStore interface {
	Load(ctx context.Context) (*models.Ledger, error)
	Save(ctx context.Context, ledger *models.Ledger) error
	Count(ctx context.Context) (int, error)
	GetWallet(ctx context.Context, address string) (*models.Wallet, error)
	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	UpdateWallet(ctx context.Context, address string, fn func(*models.Wallet) error) (*models.Wallet, error)
	Close() error
}
