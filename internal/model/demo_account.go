package model

import (
	"strings"
	"time"
)

// DemoAccount is a pooled account handed out to one visitor at a time.
type DemoAccount struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	ClaimedBy  *string    `json:"-"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty"`
	DisabledAt *time.Time `json:"disabled_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Credentials is what a visitor sees after a claim.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Usable reports whether both fields are present. Anything else renders as "no account".
func (c *Credentials) Usable() bool {
	return c != nil && strings.TrimSpace(c.Email) != "" && c.Password != ""
}

// PoolStats counts accounts by lifecycle stage.
type PoolStats struct {
	Available int64 `json:"available"`
	Claimed   int64 `json:"claimed"`
	Disabled  int64 `json:"disabled"`
}
