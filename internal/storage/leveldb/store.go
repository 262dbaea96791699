package leveldb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// every wallet is a JSON value under this prefix plus its address
const walletPrefix = "wallet/"

// Store - LedgerStore on a LevelDB directory
//
// LevelDB holds an exclusive lock on its directory, so the store belongs to
// one process; the mutex orders read-modify-write cycles inside it
type Store struct {
	sync.Mutex
	db *leveldb.DB
}

// Open - open or create the database directory
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func walletKey(address string) []byte {
	return []byte(walletPrefix + address)
}

func (s *Store) Load(ctx context.Context) (*models.Ledger, error) {
	iter := s.db.NewIterator(ldb_util.BytesPrefix([]byte(walletPrefix)), nil)
	defer iter.Release()

	ledger := models.NewLedger()
	for iter.Next() {
		w := &models.Wallet{}
		if err := json.Unmarshal(iter.Value(), w); err != nil {
			return nil, fmt.Errorf("%w: %v", fault.ErrLedgerCorrupt, err)
		}
		// the key is authoritative for the address
		w.Address = string(iter.Key()[len(walletPrefix):])
		ledger.Wallets[w.Address] = w
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// Save - replace all wallets in a single batch
func (s *Store) Save(ctx context.Context, ledger *models.Ledger) error {
	s.Lock()
	defer s.Unlock()

	batch := new(leveldb.Batch)

	iter := s.db.NewIterator(ldb_util.BytesPrefix([]byte(walletPrefix)), nil)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}

	for address, w := range ledger.Wallets {
		data, err := json.Marshal(w)
		if err != nil {
			return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
		}
		batch.Put(walletKey(address), data)
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	iter := s.db.NewIterator(ldb_util.BytesPrefix([]byte(walletPrefix)), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n += 1
	}
	return n, iter.Error()
}

func (s *Store) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	return s.get(address)
}

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	s.Lock()
	defer s.Unlock()

	found, err := s.db.Has(walletKey(wallet.Address), nil)
	if err != nil {
		return err
	}
	if found {
		return fault.ErrWalletExists
	}
	return s.put(wallet)
}

func (s *Store) UpdateWallet(ctx context.Context, address string, fn func(*models.Wallet) error) (*models.Wallet, error) {
	s.Lock()
	defer s.Unlock()

	w, err := s.get(address)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.put(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(address string) (*models.Wallet, error) {
	data, err := s.db.Get(walletKey(address), nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	w := &models.Wallet{}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrLedgerCorrupt, err)
	}
	w.Address = address
	return w, nil
}

func (s *Store) put(w *models.Wallet) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	if err := s.db.Put(walletKey(w.Address), data, nil); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	return nil
}

var _ interfaces.LedgerStore = (*Store)(nil)
