package frontend

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/history"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// Coin is the ticker amounts are shown in
const Coin = "COO"

func amount(d decimal.Decimal) string {
	return d.StringFixed(4) + " " + Coin
}

func score(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// renderHistory prints the score window; the newest entry is marked LATEST
func renderHistory(c *Console, view *models.HistoryView) {
	c.Println()
	c.Printf("--- Flight Score History (Last %d Updates) ---\n", len(view.Entries))
	if !history.Significant(view) {
		c.Println("No significant mining history yet. Start flying!")
		c.Rule("-")
		return
	}
	for _, e := range view.Entries {
		if e.Latest {
			c.Printf("[%d] Current Score: %s (LATEST)\n", e.Index, e.Score.StringFixed(4))
		} else {
			c.Printf("[%d] Score: %s\n", e.Index, e.Score.StringFixed(4))
		}
	}
	c.Rule("-")
}

// describe turns a service error into the line shown to the user
func describe(err error) string {
	switch {
	case errors.Is(err, fault.ErrInvalidAddress):
		return fmt.Sprintf("Invalid address: expected %d letters or digits.", models.AddressLength)
	case errors.Is(err, fault.ErrWalletNotFound):
		return "Address not found in the Roost Chain ledger."
	case errors.Is(err, fault.ErrSaveFailed):
		return fmt.Sprintf("Error saving data file: %v", err)
	case errors.Is(err, fault.ErrRateLimited):
		return "The Roost is busy. Wait a moment and try again."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
