package models_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

func TestValidAddress(t *testing.T) {
	assert.True(t, models.ValidAddress("abcDEF0123456789"))
	assert.False(t, models.ValidAddress("abcDEF012345678"), "too short")
	assert.False(t, models.ValidAddress("abcDEF01234567890"), "too long")
	assert.False(t, models.ValidAddress("abcDEF01234567-9"), "punctuation")
	assert.False(t, models.ValidAddress(""), "empty")
}

func TestWalletDocumentShape(t *testing.T) {
	w := models.NewWallet("abcDEF0123456789")
	w.Balance = decimal.RequireFromString("0.005")

	data, err := json.Marshal(w)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 0.005, raw["balance"])
	assert.Equal(t, 1.0, raw["flight_score"])
	assert.Equal(t, "abcDEF0123456789", raw["wallet_address"])
	assert.Equal(t, []interface{}{1.0}, raw["flight_score_history"])
}

func TestWalletEmptyHistorySurvivesEncoding(t *testing.T) {
	w := models.NewWallet("abcDEF0123456789")
	w.History = []decimal.Decimal{}

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"flight_score_history":[]`)

	var decoded models.Wallet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotNil(t, decoded.History)
	assert.True(t, w.Equal(&decoded))

	w.History = nil
	data, err = json.Marshal(w)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "flight_score_history")
}

func TestWalletDecodeMissingFields(t *testing.T) {
	var w models.Wallet
	err := json.Unmarshal([]byte(`{"balance": 2.5, "wallet_address": "abcDEF0123456789"}`), &w)
	require.NoError(t, err)

	assert.True(t, w.Balance.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, w.FlightScore.Equal(models.InitialFlightScore), "missing score defaults to initial")
	assert.Nil(t, w.History, "missing history left for backfill")
}

func TestWalletDecodeMalformedHistory(t *testing.T) {
	for _, history := range []string{`"oops"`, `{"a": 1}`, `[1.0, "x"]`, `null`} {
		var w models.Wallet
		doc := `{"balance": 1, "flight_score": 1.2, "wallet_address": "abcDEF0123456789", "flight_score_history": ` + history + `}`
		require.NoError(t, json.Unmarshal([]byte(doc), &w), history)
		assert.Nil(t, w.History, history)
		assert.True(t, w.FlightScore.Equal(decimal.RequireFromString("1.2")), history)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	l := models.NewLedger()
	a := models.NewWallet("abcDEF0123456789")
	a.Balance = decimal.RequireFromString("3.14159265")
	a.FlightScore = decimal.RequireFromString("1.03")
	a.History = []decimal.Decimal{
		decimal.RequireFromString("1"),
		decimal.RequireFromString("1.01"),
		decimal.RequireFromString("1.02"),
		decimal.RequireFromString("1.03"),
	}
	l.Wallets[a.Address] = a
	b := models.NewWallet("ZZZZZZZZZZZZZZZ0")
	b.History = nil
	l.Wallets[b.Address] = b

	data, err := json.MarshalIndent(l, "", "    ")
	require.NoError(t, err)

	decoded := models.NewLedger()
	require.NoError(t, json.Unmarshal(data, decoded))
	decoded.Normalize()
	assert.True(t, l.Equal(decoded))
}

func TestLedgerNormalize(t *testing.T) {
	l := &models.Ledger{}
	require.NoError(t, json.Unmarshal([]byte(`{"wallets": {"abcDEF0123456789": {"balance": 1}, "ZZZZZZZZZZZZZZZ0": null}}`), l))
	l.Normalize()

	require.Len(t, l.Wallets, 1)
	assert.Equal(t, "abcDEF0123456789", l.Wallets["abcDEF0123456789"].Address)

	empty := &models.Ledger{}
	require.NoError(t, json.Unmarshal([]byte(`{"other": true}`), empty))
	empty.Normalize()
	assert.NotNil(t, empty.Wallets)
	assert.Empty(t, empty.Wallets)
}

func TestWalletCloneIsDeep(t *testing.T) {
	w := models.NewWallet("abcDEF0123456789")
	c := w.Clone()
	c.History[0] = decimal.NewFromInt(7)
	c.Balance = decimal.NewFromInt(9)

	assert.True(t, w.History[0].Equal(models.InitialFlightScore))
	assert.True(t, w.Balance.IsZero())
}
