package app_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/cooin-ledger/internal/app"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	result := models.TaskResult{
		Address: "abcdefghijklmnop",
		Task:    "Deliver a message",
		Reward:  decimal.RequireFromString("0.5"),
		Balance: decimal.RequireFromString("1.5"),
	}
	require.NoError(t, app.PrintJSON(&buf, result))

	assert.Contains(t, buf.String(), "\n  ")

	var decoded models.TaskResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, result.Address, decoded.Address)
	assert.True(t, result.Balance.Equal(decoded.Balance))
}
