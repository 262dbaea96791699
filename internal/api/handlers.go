package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/patrickmn/go-cache"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.WalletCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.service.Register(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSession(w, http.StatusCreated, wallet)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest)
		return
	}

	wallet, err := s.service.Authenticate(r.Context(), req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSession(w, http.StatusOK, wallet)
}

func (s *Server) writeSession(w http.ResponseWriter, status int, wallet *models.Wallet) {
	token, err := s.issueToken(wallet.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, SessionResponse{Wallet: wallet, Token: token})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := authorize(r, address); err != nil {
		writeError(w, err)
		return
	}

	wallet, err := s.service.Authenticate(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := authorize(r, address); err != nil {
		writeError(w, err)
		return
	}
	if err := s.limit(r.Context(), address); err != nil {
		writeError(w, err)
		return
	}

	flight, err := s.service.LaunchFlight(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	s.flights.Set(flight.ID, flight.Address, cache.DefaultExpiration)
	writeJSON(w, http.StatusCreated, flight)
}

func (s *Server) handleLand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	owner, found := s.flights.Get(id)
	if !found {
		writeError(w, fault.ErrFlightNotFound)
		return
	}
	if err := authorize(r, owner.(string)); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.service.LandFlight(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	s.flights.Delete(id)
	writeJSON(w, http.StatusOK, result)
}

// handleTask replays the stored result when an Idempotency-Key is reused
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := authorize(r, address); err != nil {
		writeError(w, err)
		return
	}

	key := r.Header.Get(IdempotencyHeader)
	if key == "" {
		result, err := s.service.CompleteDailyTask(r.Context(), address)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	replayKey := address + "/" + key
	if item, found := s.replays.Get(replayKey); found {
		s.log.Debugf("replaying task %s for %s", key, address)
		writeJSON(w, http.StatusOK, item)
		return
	}

	result, err := s.service.CompleteDailyTask(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	s.replays.Set(replayKey, result, cache.DefaultExpiration)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := authorize(r, address); err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fault.ErrInvalidLimit)
			return
		}
		limit = n
	}

	view, err := s.service.History(r.Context(), address, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
