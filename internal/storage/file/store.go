// Package file stores the ledger as the single shared JSON document the
// miner, task and wallet programs all read and write.
//
// Every read-modify-write holds an exclusive advisory lock on <path>.lock so
// independent processes serialize instead of losing each other's updates.
// Plain reads take a shared lock.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/gofrs/flock"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

const (
	lockSuffix       = ".lock"
	quarantineSuffix = ".corrupt"
	lockRetryDelay   = 20 * time.Millisecond
	indent           = "    "
)

// Store is a LedgerStore backed by one JSON file
type Store struct {
	sync.Mutex
	path string
	lock *flock.Flock
	log  *logger.L
}

// NewStore prepares a store for the ledger file at path, creating its
// directory if needed. The file itself is created on first save
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return &Store{
		path: path,
		lock: flock.New(path + lockSuffix),
		log:  logger.New("file-store"),
	}, nil
}

// Path returns the ledger file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the full ledger. An absent, unreadable or malformed file is
// reported in the log and treated as an empty ledger
func (s *Store) Load(ctx context.Context) (*models.Ledger, error) {
	var ledger *models.Ledger
	err := s.shared(ctx, func() error {
		ledger = s.read(false)
		return nil
	})
	return ledger, err
}

// Save replaces the file with the whole ledger
func (s *Store) Save(ctx context.Context, ledger *models.Ledger) error {
	return s.exclusive(ctx, func() error {
		s.read(true)
		return s.write(ledger)
	})
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.shared(ctx, func() error {
		n = len(s.read(false).Wallets)
		return nil
	})
	return n, err
}

func (s *Store) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	var wallet *models.Wallet
	err := s.shared(ctx, func() error {
		w, ok := s.read(false).Wallets[address]
		if !ok {
			return fault.ErrWalletNotFound
		}
		wallet = w
		return nil
	})
	return wallet, err
}

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.exclusive(ctx, func() error {
		ledger := s.read(true)
		if _, exists := ledger.Wallets[wallet.Address]; exists {
			return fault.ErrWalletExists
		}
		ledger.Wallets[wallet.Address] = wallet.Clone()
		return s.write(ledger)
	})
}

// UpdateWallet reloads the file, applies fn to the wallet and writes the
// result, all under the exclusive lock. Nothing is written if fn fails
func (s *Store) UpdateWallet(ctx context.Context, address string, fn func(*models.Wallet) error) (*models.Wallet, error) {
	var updated *models.Wallet
	err := s.exclusive(ctx, func() error {
		ledger := s.read(true)
		current, ok := ledger.Wallets[address]
		if !ok {
			return fault.ErrWalletNotFound
		}
		w := current.Clone()
		if err := fn(w); err != nil {
			return err
		}
		ledger.Wallets[address] = w
		if err := s.write(ledger); err != nil {
			return err
		}
		updated = w.Clone()
		return nil
	})
	return updated, err
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) shared(ctx context.Context, fn func() error) error {
	s.Lock()
	defer s.Unlock()

	ok, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrLedgerLocked, err)
	}
	if !ok {
		return fault.ErrLedgerLocked
	}
	defer s.unlock()

	return fn()
}

func (s *Store) exclusive(ctx context.Context, fn func() error) error {
	s.Lock()
	defer s.Unlock()

	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrLedgerLocked, err)
	}
	if !ok {
		return fault.ErrLedgerLocked
	}
	defer s.unlock()

	return fn()
}

func (s *Store) unlock() {
	if err := s.lock.Unlock(); err != nil {
		s.log.Errorf("unlock %s: %s", s.lock.Path(), err)
	}
}

// read must be called with the lock held. When quarantine is set a malformed
// file is moved aside so the following write cannot destroy it
func (s *Store) read(quarantine bool) *models.Ledger {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.NewLedger()
	}
	if err != nil {
		s.log.Warnf("ledger %s unreadable, using empty ledger: %s", s.path, err)
		return models.NewLedger()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.log.Warnf("ledger %s is empty", s.path)
		return models.NewLedger()
	}

	ledger, err := decode(data)
	if err != nil {
		s.log.Warnf("%s: %s: %s, using empty ledger", fault.ErrLedgerCorrupt, s.path, err)
		if quarantine {
			s.quarantine()
		}
		return models.NewLedger()
	}
	return ledger
}

func (s *Store) quarantine() {
	target := s.path + quarantineSuffix
	if err := os.Rename(s.path, target); err != nil {
		s.log.Errorf("quarantine %s: %s", s.path, err)
		return
	}
	s.log.Warnf("corrupt ledger moved to %s", target)
}

// write must be called with the exclusive lock held
func (s *Store) write(ledger *models.Ledger) error {
	data, err := encode(ledger)
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	return nil
}

func decode(data []byte) (*models.Ledger, error) {
	ledger := &models.Ledger{}
	if err := json.Unmarshal(data, ledger); err != nil {
		return nil, err
	}
	ledger.Normalize()
	return ledger, nil
}

func encode(ledger *models.Ledger) ([]byte, error) {
	doc := ledger
	if doc.Wallets == nil {
		doc = models.NewLedger()
	}
	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

var _ interfaces.LedgerStore = (*Store)(nil)
