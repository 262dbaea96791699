// Package fault - error instances
//
// Provides a single instance of each error so callers can compare with
// errors.Is instead of matching strings
package fault

import "errors"

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrFlightNotFound    = NotFoundError("flight not found")
	ErrForbidden         = InvalidError("wallet does not belong to session")
	ErrInsufficientFunds = InvalidError("insufficient funds")
	ErrInvalidAddress    = InvalidError("invalid wallet address")
	ErrInvalidLimit      = InvalidError("invalid history limit")
	ErrLedgerCorrupt     = ProcessError("ledger file corrupt")
	ErrLedgerLocked      = ProcessError("ledger lock not acquired")
	ErrRateLimited       = ProcessError("rate limited")
	ErrSaveFailed        = ProcessError("ledger save failed")
	ErrUnauthorized      = InvalidError("unauthorized")
	ErrUnknownBackend    = InvalidError("unknown ledger backend")
	ErrWalletExists      = ExistsError("wallet already exists")
	ErrWalletNotFound    = NotFoundError("wallet not found")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
