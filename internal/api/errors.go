package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
)

var errBadRequest = fault.InvalidError("invalid request body")

// StatusFor maps a service error onto an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, fault.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, fault.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, fault.ErrInsufficientFunds), fault.IsErrExists(err):
		return http.StatusConflict
	case errors.Is(err, fault.ErrRateLimited):
		return http.StatusTooManyRequests
	case fault.IsErrNotFound(err):
		return http.StatusNotFound
	case fault.IsErrInvalid(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorResponse{
		Error: err.Error(),
		Code:  CodeFor(err),
	})
}
