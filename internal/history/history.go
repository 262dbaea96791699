// Package history tracks the flight score of a wallet over time
package history

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// DefaultDisplayLimit is how many of the most recent scores are shown
const DefaultDisplayLimit = 5

// Ensure backfills a missing history with the current score and reports
// whether the wallet changed and needs saving
func Ensure(w *models.Wallet) bool {
	if w.History != nil {
		return false
	}
	w.History = []decimal.Decimal{w.FlightScore}
	return true
}

// Record appends the current score. A missing history is backfilled with
// the current score instead, so it is never recorded twice
func Record(w *models.Wallet) {
	if Ensure(w) {
		return
	}
	w.History = append(w.History, w.FlightScore)
}

// Significant reports whether the view holds any mining history beyond the
// starting entry
func Significant(view *models.HistoryView) bool {
	return view.Total > 1
}

// Recent returns at most limit of the newest entries, oldest first, with
// their position in the full history. Older entries are kept but not shown
func Recent(w *models.Wallet, limit int) models.HistoryView {
	if limit <= 0 {
		limit = DefaultDisplayLimit
	}
	total := len(w.History)
	start := total - limit
	if start < 0 {
		start = 0
	}

	entries := make([]models.HistoryEntry, 0, total-start)
	for i := start; i < total; i++ {
		entries = append(entries, models.HistoryEntry{
			Index:  i + 1,
			Score:  w.History[i],
			Latest: i == total-1,
		})
	}

	return models.HistoryView{
		Address: w.Address,
		Total:   total,
		Entries: entries,
	}
}
