package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Flight represents a launched mining attempt whose cost has been paid but
// whose outcome is not yet known
type Flight struct {
	ID         string          `json:"id"`
	Address    string          `json:"address"`
	Cost       decimal.Decimal `json:"cost"`
	Balance    decimal.Decimal `json:"balance"` // after the cost was deducted
	LaunchedAt time.Time       `json:"launched_at"`
}
