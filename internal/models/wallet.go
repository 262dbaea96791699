package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AddressLength is the number of characters in a wallet address
const AddressLength = 16

// InitialFlightScore is the score every wallet starts flying with
var InitialFlightScore = decimal.NewFromInt(1)

// Wallet represents one user's balance and mining efficiency
type Wallet struct {
	Address     string
	Balance     decimal.Decimal
	FlightScore decimal.Decimal
	History     []decimal.Decimal // nil when absent or malformed on disk, oldest first
}

// walletRecord is the on-disk shape of a wallet
type walletRecord struct {
	Balance            json.Number     `json:"balance"`
	FlightScore        json.Number     `json:"flight_score"`
	WalletAddress      string          `json:"wallet_address"`
	FlightScoreHistory json.RawMessage `json:"flight_score_history,omitempty"`
}

// NewWallet returns a freshly registered wallet for the address
func NewWallet(address string) *Wallet {
	return &Wallet{
		Address:     address,
		Balance:     decimal.Zero,
		FlightScore: InitialFlightScore,
		History:     []decimal.Decimal{InitialFlightScore},
	}
}

// ValidAddress reports whether s has the shape of a wallet address
func ValidAddress(s string) bool {
	if len(s) != AddressLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers cannot mutate stored state
func (w *Wallet) Clone() *Wallet {
	c := *w
	if w.History != nil {
		c.History = make([]decimal.Decimal, len(w.History))
		copy(c.History, w.History)
	}
	return &c
}

// Equal compares amounts by value rather than by representation
func (w *Wallet) Equal(o *Wallet) bool {
	if w == nil || o == nil {
		return w == o
	}
	if w.Address != o.Address || !w.Balance.Equal(o.Balance) || !w.FlightScore.Equal(o.FlightScore) {
		return false
	}
	if (w.History == nil) != (o.History == nil) || len(w.History) != len(o.History) {
		return false
	}
	for i := range w.History {
		if !w.History[i].Equal(o.History[i]) {
			return false
		}
	}
	return true
}

func (w Wallet) MarshalJSON() ([]byte, error) {
	r := walletRecord{
		Balance:       json.Number(w.Balance.String()),
		FlightScore:   json.Number(w.FlightScore.String()),
		WalletAddress: w.Address,
	}
	if w.History != nil {
		history := make([]json.Number, len(w.History))
		for i, h := range w.History {
			history[i] = json.Number(h.String())
		}
		raw, err := json.Marshal(history)
		if err != nil {
			return nil, err
		}
		r.FlightScoreHistory = raw
	}
	return json.Marshal(r)
}

// UnmarshalJSON accepts wallets written by older clients: a missing score
// means the initial score and a missing or non-list history is left nil to be
// backfilled on first view
func (w *Wallet) UnmarshalJSON(data []byte) error {
	var r walletRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	balance, err := numberOr(r.Balance, decimal.Zero)
	if err != nil {
		return err
	}
	score, err := numberOr(r.FlightScore, InitialFlightScore)
	if err != nil {
		return err
	}

	w.Address = r.WalletAddress
	w.Balance = balance
	w.FlightScore = score
	w.History = decodeHistory(r.FlightScoreHistory)
	return nil
}

func numberOr(n json.Number, fallback decimal.Decimal) (decimal.Decimal, error) {
	if n == "" {
		return fallback, nil
	}
	return decimal.NewFromString(n.String())
}

func decodeHistory(raw json.RawMessage) []decimal.Decimal {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var numbers []json.Number
	if err := json.Unmarshal(raw, &numbers); err != nil {
		return nil
	}
	history := make([]decimal.Decimal, 0, len(numbers))
	for _, n := range numbers {
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil
		}
		history = append(history, d)
	}
	return history
}
