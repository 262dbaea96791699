package history_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/history"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

func scores(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestEnsureBackfills(t *testing.T) {
	w := &models.Wallet{Address: "abcDEF0123456789", FlightScore: decimal.RequireFromString("1.07")}

	assert.True(t, history.Ensure(w))
	require.Len(t, w.History, 1)
	assert.True(t, w.History[0].Equal(w.FlightScore))

	assert.False(t, history.Ensure(w), "second call is a no-op")
	assert.Len(t, w.History, 1)
}

func TestRecordKeepsLastEqualToScore(t *testing.T) {
	w := &models.Wallet{Address: "abcDEF0123456789", FlightScore: decimal.NewFromInt(1)}
	increase := decimal.RequireFromString("0.01")
	history.Ensure(w)

	for i := 0; i < 8; i++ {
		w.FlightScore = w.FlightScore.Add(increase)
		history.Record(w)
		assert.True(t, w.History[len(w.History)-1].Equal(w.FlightScore))
	}
	assert.Len(t, w.History, 9)
	assert.True(t, w.History[0].Equal(decimal.NewFromInt(1)), "oldest first")
}

func TestRecordOnMissingHistoryStoresScoreOnce(t *testing.T) {
	w := &models.Wallet{Address: "abcDEF0123456789", FlightScore: decimal.RequireFromString("1.01")}

	history.Record(w)
	require.Len(t, w.History, 1)
	assert.True(t, w.History[0].Equal(w.FlightScore))

	w.FlightScore = decimal.RequireFromString("1.02")
	history.Record(w)
	require.Len(t, w.History, 2)
	assert.True(t, w.History[1].Equal(decimal.RequireFromString("1.02")))
}

func TestRecentWindow(t *testing.T) {
	w := &models.Wallet{
		Address: "abcDEF0123456789",
		History: scores("1", "1.01", "1.02", "1.03", "1.04", "1.05", "1.06"),
	}

	view := history.Recent(w, 5)
	assert.Equal(t, 7, view.Total)
	require.Len(t, view.Entries, 5)
	assert.Equal(t, 3, view.Entries[0].Index)
	assert.True(t, view.Entries[0].Score.Equal(decimal.RequireFromString("1.02")))
	assert.Equal(t, 7, view.Entries[4].Index)
	assert.True(t, view.Entries[4].Latest)
	for _, e := range view.Entries[:4] {
		assert.False(t, e.Latest)
	}
	assert.Len(t, w.History, 7, "entries beyond the window are retained")
}

func TestRecentShortHistory(t *testing.T) {
	w := &models.Wallet{History: scores("1", "1.01")}

	view := history.Recent(w, 0)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, 1, view.Entries[0].Index)
	assert.True(t, view.Entries[1].Latest)
	assert.True(t, history.Significant(&view))

	single := history.Recent(&models.Wallet{History: scores("1")}, 0)
	assert.False(t, history.Significant(&single))
}
