package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
)

// test that errors are classified, including when wrapped
func TestClassification(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		notFound bool
		process  bool
	}{
		{fault.ErrWalletExists, true, false, false, false},
		{fault.ErrInsufficientFunds, false, true, false, false},
		{fault.ErrInvalidAddress, false, true, false, false},
		{fault.ErrWalletNotFound, false, false, true, false},
		{fault.ErrFlightNotFound, false, false, true, false},
		{fault.ErrSaveFailed, false, false, false, true},
		{fmt.Errorf("save ledger: %w", fault.ErrSaveFailed), false, false, false, true},
		{fmt.Errorf("lookup: %w", fault.ErrWalletNotFound), false, false, true, false},
		{errors.New("plain"), false, false, false, false},
	}

	for i, item := range errorList {
		assert.Equal(t, item.exists, fault.IsErrExists(item.err), "%d: exists: %s", i, item.err)
		assert.Equal(t, item.invalid, fault.IsErrInvalid(item.err), "%d: invalid: %s", i, item.err)
		assert.Equal(t, item.notFound, fault.IsErrNotFound(item.err), "%d: not found: %s", i, item.err)
		assert.Equal(t, item.process, fault.IsErrProcess(item.err), "%d: process: %s", i, item.err)
	}
}

func TestWrappedIdentity(t *testing.T) {
	err := fmt.Errorf("mine: %w", fault.ErrInsufficientFunds)
	assert.True(t, errors.Is(err, fault.ErrInsufficientFunds))
	assert.False(t, errors.Is(err, fault.ErrInvalidAddress))
}
