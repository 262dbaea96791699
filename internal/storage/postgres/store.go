package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

const schema = `CREATE TABLE IF NOT EXISTS wallets (
	address      TEXT PRIMARY KEY,
	balance      NUMERIC NOT NULL,
	flight_score NUMERIC NOT NULL,
	history      JSONB
)`

type PostgresLedgerStore struct {
	db *sql.DB
}

// Open connects with the lib/pq driver and makes sure the schema exists
func Open(ctx context.Context, dsn string) (*PostgresLedgerStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	p := NewPostgresLedgerStore(db)
	if err := p.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

func (p *PostgresLedgerStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *PostgresLedgerStore) Load(ctx context.Context) (*models.Ledger, error) {
	const query = `SELECT address, balance, flight_score, history FROM wallets`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := models.NewLedger()
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		ledger.Wallets[w.Address] = w
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// Save replaces every row with the ledger's wallets in one transaction
func (p *PostgresLedgerStore) Save(ctx context.Context, ledger *models.Ledger) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM wallets`); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	for _, w := range ledger.Wallets {
		if err = insertWallet(ctx, dbTx, w); err != nil {
			return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
		}
	}
	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	return nil
}

func (p *PostgresLedgerStore) Count(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM wallets`).Scan(&n)
	return n, err
}

func (p *PostgresLedgerStore) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	const query = `SELECT address, balance, flight_score, history FROM wallets WHERE address = $1`

	w, err := scanWallet(p.db.QueryRowContext(ctx, query, address))
	if err == sql.ErrNoRows {
		return nil, fault.ErrWalletNotFound
	}
	return w, err
}

func (p *PostgresLedgerStore) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	history, err := encodeHistory(wallet.History)
	if err != nil {
		return err
	}

	const query = `INSERT INTO wallets (address, balance, flight_score, history)
	VALUES ($1, $2, $3, $4) ON CONFLICT (address) DO NOTHING`

	result, err := p.db.ExecContext(ctx, query, wallet.Address, wallet.Balance, wallet.FlightScore, history)
	if err != nil {
		return fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fault.ErrWalletExists
	}
	return nil
}

// UpdateWallet locks the row with SELECT ... FOR UPDATE so concurrent
// writers queue behind each other
func (p *PostgresLedgerStore) UpdateWallet(ctx context.Context, address string, fn func(*models.Wallet) error) (updated *models.Wallet, err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const query = `SELECT address, balance, flight_score, history FROM wallets WHERE address = $1 FOR UPDATE`

	w, err := scanWallet(dbTx.QueryRowContext(ctx, query, address))
	if err == sql.ErrNoRows {
		return nil, fault.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	if err = fn(w); err != nil {
		return nil, err
	}

	history, err := encodeHistory(w.History)
	if err != nil {
		return nil, err
	}

	const update = `UPDATE wallets SET balance = $2, flight_score = $3, history = $4 WHERE address = $1`

	if _, err = dbTx.ExecContext(ctx, update, w.Address, w.Balance, w.FlightScore, history); err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	if err = dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrSaveFailed, err)
	}
	return w, nil
}

func (p *PostgresLedgerStore) Close() error {
	return p.db.Close()
}

func insertWallet(ctx context.Context, dbTx *sql.Tx, w *models.Wallet) error {
	history, err := encodeHistory(w.History)
	if err != nil {
		return err
	}

	const query = `INSERT INTO wallets (address, balance, flight_score, history)
	VALUES ($1, $2, $3, $4)`

	_, err = dbTx.ExecContext(ctx, query, w.Address, w.Balance, w.FlightScore, history)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWallet(row scanner) (*models.Wallet, error) {
	var (
		w       models.Wallet
		history sql.NullString
	)
	if err := row.Scan(&w.Address, &w.Balance, &w.FlightScore, &history); err != nil {
		return nil, err
	}
	if history.Valid {
		var scores []decimal.Decimal
		if err := json.Unmarshal([]byte(history.String), &scores); err != nil {
			return nil, err
		}
		w.History = scores
	}
	return &w, nil
}

// a nil history is stored as NULL so it is still backfilled on first view
func encodeHistory(history []decimal.Decimal) (sql.NullString, error) {
	if history == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(history)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
