package api

import (
	"errors"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

// IdempotencyHeader makes a task request safe to retry
const IdempotencyHeader = "Idempotency-Key"

type SessionRequest struct {
	Address string `json:"address"`
}

// SessionResponse is returned by registration and login
type SessionResponse struct {
	Wallet *models.Wallet `json:"wallet"`
	Token  string         `json:"token"`
}

type CountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse carries the message and, for known failures, a code the
// client turns back into the same error value
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// errors that cross the wire by code
var knownErrors = []error{
	fault.ErrFlightNotFound,
	fault.ErrForbidden,
	fault.ErrInsufficientFunds,
	fault.ErrInvalidAddress,
	fault.ErrInvalidLimit,
	fault.ErrLedgerCorrupt,
	fault.ErrLedgerLocked,
	fault.ErrRateLimited,
	fault.ErrSaveFailed,
	fault.ErrUnauthorized,
	fault.ErrWalletExists,
	fault.ErrWalletNotFound,
}

// CodeFor returns the wire code of err, or "" if it is not a known failure
func CodeFor(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ""
}

// ErrorForCode is the inverse of CodeFor
func ErrorForCode(code string) error {
	for _, known := range knownErrors {
		if known.Error() == code {
			return known
		}
	}
	return nil
}
