package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// Store is a LedgerStore kept in a SQLite database through gorm
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates it
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %v", err)
		}
	}

	// Configure GORM to be less verbose
	config := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// a single connection serializes write transactions inside the process
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SQLiteWallet{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (*models.Ledger, error) {
	var rows []SQLiteWallet
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	ledger := models.NewLedger()
	for i := range rows {
		w, err := toWallet(&rows[i])
		if err != nil {
			return nil, err
		}
		ledger.Wallets[w.Address] = w
	}
	return ledger, nil
}

func (s *Store) Save(ctx context.Context, ledger *models.Ledger) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&SQLiteWallet{}).Error; err != nil {
			return err
		}
		for _, w := range ledger.Wallets {
			row, err := fromWallet(w)
			if err != nil {
				return err
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&SQLiteWallet{}).Count(&n).Error
	return int(n), err
}

func (s *Store) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	row, err := find(s.db.WithContext(ctx), address)
	if err != nil {
		return nil, err
	}
	return toWallet(row)
}

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, wallet.Address); err == nil {
			return fault.ErrWalletExists
		} else if !errors.Is(err, fault.ErrWalletNotFound) {
			return err
		}

		row, err := fromWallet(wallet)
		if err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
		}
		return nil
	})
}

func (s *Store) UpdateWallet(ctx context.Context, address string, fn func(*models.Wallet) error) (*models.Wallet, error) {
	var updated *models.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := find(tx, address)
		if err != nil {
			return err
		}
		w, err := toWallet(row)
		if err != nil {
			return err
		}
		if err := fn(w); err != nil {
			return err
		}

		replacement, err := fromWallet(w)
		if err != nil {
			return err
		}
		row.Balance = replacement.Balance
		row.FlightScore = replacement.FlightScore
		row.History = replacement.History
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
		}
		updated = w
		return nil
	})
	return updated, err
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func find(db *gorm.DB, address string) (*SQLiteWallet, error) {
	var row SQLiteWallet
	result := db.Where("address = ?", address).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fault.ErrWalletNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

func toWallet(row *SQLiteWallet) (*models.Wallet, error) {
	balance, err := decimal.NewFromString(row.Balance)
	if err != nil {
		return nil, fmt.Errorf("wallet %s balance: %w", row.Address, err)
	}
	score, err := decimal.NewFromString(row.FlightScore)
	if err != nil {
		return nil, fmt.Errorf("wallet %s flight score: %w", row.Address, err)
	}

	w := &models.Wallet{
		Address:     row.Address,
		Balance:     balance,
		FlightScore: score,
	}
	if row.History != nil {
		if err := json.Unmarshal([]byte(*row.History), &w.History); err != nil {
			return nil, fmt.Errorf("wallet %s history: %w", row.Address, err)
		}
	}
	return w, nil
}

func fromWallet(w *models.Wallet) (*SQLiteWallet, error) {
	row := &SQLiteWallet{
		Address:     w.Address,
		Balance:     w.Balance.String(),
		FlightScore: w.FlightScore.String(),
	}
	if w.History != nil {
		data, err := json.Marshal(w.History)
		if err != nil {
			return nil, err
		}
		history := string(data)
		row.History = &history
	}
	return row, nil
}

var _ interfaces.LedgerStore = (*Store)(nil)
