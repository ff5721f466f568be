// Package backend names the remote procedure that hands out demo accounts.
package backend

import (
	"context"

	"github.com/votemonitor/internal/model"
)

// Claimer calls claim_demo_account. It returns nil credentials (and no error) when the
// backend answered but had no account for the token; an error means the call itself failed.
type Claimer interface {
	ClaimDemoAccount(ctx context.Context, token string) (*model.Credentials, error)
}
