package storage

import (
	"context"
	"time"

	"github.com/votemonitor/internal/model"
)

// CredentialCache keeps claim results keyed by session token.
// Implementations: redis.Client, memory.Client (for -dev without Redis).
type CredentialCache interface {
	// GetCredentials returns nil, nil on a miss.
	GetCredentials(ctx context.Context, token string) (*model.Credentials, error)
	SetCredentials(ctx context.Context, token string, creds *model.Credentials, ttl time.Duration) error
	DeleteCredentials(ctx context.Context, token string) error
	Close() error
}
