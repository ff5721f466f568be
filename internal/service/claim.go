package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/votemonitor/internal/backend"
	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/model"
	"github.com/votemonitor/internal/storage"
)

var (
	ErrEmptyToken         = errors.New("empty session token")
	ErrNoAccountAvailable = errors.New("no demo account available")
	ErrClaimFailed        = errors.New("claim demo account failed")
)

// ClaimService hands out one demo account per session token. Results are cached by token
// and concurrent claims for the same token share a single backend call.
type ClaimService struct {
	backend  backend.Claimer
	cache    storage.CredentialCache
	cacheTTL time.Duration
	timeout  time.Duration
	group    singleflight.Group
}

// NewClaimService wires the backend and cache. cache may be nil (no caching).
func NewClaimService(b backend.Claimer, cache storage.CredentialCache, cacheTTL, timeout time.Duration) *ClaimService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClaimService{backend: b, cache: cache, cacheTTL: cacheTTL, timeout: timeout}
}

// Claim returns the credentials bound to token, claiming an account on first use.
// Errors: ErrEmptyToken, ErrNoAccountAvailable, ErrClaimFailed (wrapping the cause),
// or the context error if ctx ends first.
func (s *ClaimService) Claim(ctx context.Context, token string) (*model.Credentials, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	if creds := s.cached(ctx, token); creds != nil {
		return creds, nil
	}

	ch := s.group.DoChan(token, func() (any, error) {
		// The shared call outlives any single waiter; it is bounded by the claim timeout.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.claim(callCtx, token)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		creds := res.Val.(*model.Credentials)
		out := *creds
		return &out, nil
	}
}

func (s *ClaimService) claim(ctx context.Context, token string) (*model.Credentials, error) {
	creds, err := s.backend.ClaimDemoAccount(ctx, token)
	if err != nil {
		logger.Errorw("claim demo account failed", "token", logger.MaskToken(token), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrClaimFailed, err)
	}
	if !creds.Usable() {
		logger.Infow("demo account pool exhausted", "token", logger.MaskToken(token))
		return nil, ErrNoAccountAvailable
	}
	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetCredentials(ctx, token, creds, s.cacheTTL); err != nil {
			logger.Warnf("cache credentials token=%s: %v", logger.MaskToken(token), err)
		}
	}
	return creds, nil
}

// cached treats every cache error as a miss.
func (s *ClaimService) cached(ctx context.Context, token string) *model.Credentials {
	if s.cache == nil {
		return nil
	}
	creds, err := s.cache.GetCredentials(ctx, token)
	if err != nil {
		logger.Warnf("read cached credentials token=%s: %v", logger.MaskToken(token), err)
		return nil
	}
	if !creds.Usable() {
		return nil
	}
	return creds
}

// Forget drops the cached result for token, e.g. after the account expired.
func (s *ClaimService) Forget(ctx context.Context, token string) error {
	if s.cache == nil || token == "" {
		return nil
	}
	return s.cache.DeleteCredentials(ctx, token)
}
