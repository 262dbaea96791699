// Package api serves the ledger to the front-ends over HTTP so a single
// process owns the store
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
)

// Options tune sessions, rate limiting and replay of task requests
type Options struct {
	JWTSecret      []byte        // empty generates a key per process
	TokenTTL       time.Duration
	RateLimit      float64       // flights per second per wallet, 0 disables
	RateBurst      int
	MaxWait        time.Duration // longest a flight request is held back
	FlightTTL      time.Duration // how long the owner of a flight is remembered
	IdempotencyTTL time.Duration
}

type Server struct {
	service interfaces.WalletService
	opts    Options
	jwtKey  []byte
	log     *logger.L
	now     func() time.Time

	limitMu  sync.Mutex
	limiters *cache.Cache // address -> *rate.Limiter

	flights *cache.Cache // flight id -> owner address

	taskMu  sync.Mutex
	replays *cache.Cache // address + idempotency key -> *models.TaskResult
}

// NewServer wraps a wallet service
func NewServer(service interfaces.WalletService, opts Options) (*Server, error) {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	if opts.FlightTTL <= 0 {
		opts.FlightTTL = 2 * time.Minute
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}

	s := &Server{
		service:  service,
		opts:     opts,
		jwtKey:   opts.JWTSecret,
		log:      logger.New("api"),
		now:      time.Now,
		limiters: cache.New(limiterIdle, limiterIdle),
		flights:  cache.New(opts.FlightTTL, 2*opts.FlightTTL),
		replays:  cache.New(opts.IdempotencyTTL, time.Hour),
	}

	if len(s.jwtKey) == 0 {
		key, err := GenerateJWTKey()
		if err != nil {
			return nil, err
		}
		s.log.Warn("no jwt secret configured: sessions end when the server restarts")
		s.jwtKey = key
	}
	return s, nil
}

// Handler returns the routed and wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	open := func(h http.HandlerFunc) http.HandlerFunc {
		return ApplyMiddleware(h, s.ErrorMiddleware, s.LoggingMiddleware)
	}
	secured := func(h http.HandlerFunc) http.HandlerFunc {
		return ApplyMiddleware(h, s.JWTMiddleware, s.ErrorMiddleware, s.LoggingMiddleware)
	}

	mux.HandleFunc("GET /health", open(s.handleHealth))
	mux.HandleFunc("GET /wallets/count", open(s.handleCount))
	mux.HandleFunc("POST /wallets", open(s.handleRegister))
	mux.HandleFunc("POST /sessions", open(s.handleLogin))

	mux.HandleFunc("GET /wallets/{address}", secured(s.handleWallet))
	mux.HandleFunc("POST /wallets/{address}/flights", secured(s.handleLaunch))
	mux.HandleFunc("POST /flights/{id}/land", secured(s.handleLand))
	mux.HandleFunc("POST /wallets/{address}/tasks", secured(s.handleTask))
	mux.HandleFunc("GET /wallets/{address}/history", secured(s.handleHistory))

	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
