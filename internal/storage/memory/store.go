package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/cooin-ledger/internal/models"                // domain models: Ledger, Wallet
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It holds copies of the wallets and is safe for concurrent use; state is lost
// when the process exits.
type MemoryLedgerStore struct {
	mu      sync.Mutex                // mutex to protect wallets from concurrent access
	wallets map[string]*models.Wallet // address -> wallet, never shared with callers
}

// NewMemoryLedgerStore creates and returns a new empty MemoryLedgerStore
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		wallets: make(map[string]*models.Wallet),
	}
}

// Load returns a copy of the whole ledger
func (m *MemoryLedgerStore) Load(ctx context.Context) (*models.Ledger, error) {
	m.mu.Lock()         // lock to prevent concurrent modification while reading
	defer m.mu.Unlock() // unlock automatically at the end

	ledger := models.NewLedger()
	for address, w := range m.wallets {
		ledger.Wallets[address] = w.Clone()
	}
	return ledger, nil
}

// Save replaces the stored wallets with copies of the ledger's
func (m *MemoryLedgerStore) Save(ctx context.Context, ledger *models.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	wallets := make(map[string]*models.Wallet, len(ledger.Wallets))
	for address, w := range ledger.Wallets {
		wallets[address] = w.Clone()
	}
	m.wallets = wallets
	return nil
}

func (m *MemoryLedgerStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wallets), nil
}

func (m *MemoryLedgerStore) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wallets[address]
	if !ok {
		return nil, fault.ErrWalletNotFound
	}
	return w.Clone(), nil // return a copy so external code can't modify internal state
}

func (m *MemoryLedgerStore) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.wallets[wallet.Address]; exists {
		return fault.ErrWalletExists
	}
	m.wallets[wallet.Address] = wallet.Clone()
	return nil
}

// UpdateWallet applies fn to a copy of the wallet and stores the result only
// if fn succeeds
func (m *MemoryLedgerStore) UpdateWallet(ctx context.Context, address string, fn func(*models.Wallet) error) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.wallets[address]
	if !ok {
		return nil, fault.ErrWalletNotFound
	}

	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	m.wallets[address] = updated
	return updated.Clone(), nil
}

func (m *MemoryLedgerStore) Close() error {
	return nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
