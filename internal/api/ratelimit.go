package api

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
)

// idle wallets have their limiter dropped after this long
const limiterIdle = 10 * time.Minute

func (s *Server) limiterFor(address string) *rate.Limiter {
	s.limitMu.Lock()
	defer s.limitMu.Unlock()

	if item, found := s.limiters.Get(address); found {
		s.limiters.Set(address, item, cache.DefaultExpiration)
		return item.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(s.opts.RateLimit), s.opts.RateBurst)
	s.limiters.Set(address, limiter, cache.DefaultExpiration)
	return limiter
}

// limit waits for the wallet's next flight slot; a wait longer than MaxWait
// is refused instead
func (s *Server) limit(ctx context.Context, address string) error {
	if s.opts.RateLimit <= 0 {
		return nil
	}

	r := s.limiterFor(address).Reserve()
	if !r.OK() {
		return fault.ErrRateLimited
	}

	delay := r.Delay()
	if delay > s.opts.MaxWait {
		r.Cancel()
		return fault.ErrRateLimited
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
