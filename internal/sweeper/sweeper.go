// Package sweeper expires demo accounts whose claim is older than the account lifetime.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/votemonitor/internal/logger"
)

// Expirer disables accounts claimed before cutoff and returns the tokens that held them.
type Expirer interface {
	DisableExpired(ctx context.Context, cutoff time.Time) ([]string, error)
}

// Forgetter drops a cached claim result.
type Forgetter interface {
	Forget(ctx context.Context, token string) error
}

type Sweeper struct {
	accounts Expirer
	cache    Forgetter
	ttl      time.Duration
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
}

type Option func(*Sweeper)

// WithNow replaces the clock the expiry cutoff is computed from.
func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// New builds a sweeper. cache may be nil.
func New(accounts Expirer, cache Forgetter, ttl time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{accounts: accounts, cache: cache, ttl: ttl, timeout: time.Minute, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce disables every expired account and forgets the cached results of its tokens.
// Returns how many accounts were disabled.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl)
	tokens, err := s.accounts.DisableExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeper.RunOnce: %w", err)
	}
	if s.cache != nil {
		for _, token := range tokens {
			if err := s.cache.Forget(ctx, token); err != nil {
				logger.Warnf("sweeper: forget token=%s: %v", logger.MaskToken(token), err)
			}
		}
	}
	return len(tokens), nil
}

// Start runs RunOnce on schedule (standard cron spec or @every descriptor) until Stop.
func (s *Sweeper) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		n, err := s.RunOnce(ctx)
		if err != nil {
			logger.Errorf("sweeper: %v", err)
			return
		}
		if n > 0 {
			logger.Infow("expired demo accounts disabled", "count", n)
		}
	})
	if err != nil {
		return fmt.Errorf("sweeper.Start %q: %w", schedule, err)
	}
	s.cron = c
	c.Start()
	logger.Infof("sweeper: scheduled %s, account ttl %s", schedule, s.ttl)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
