// Package poolgen creates fresh demo accounts for the pool.
package poolgen

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/votemonitor/internal/model"
)

const (
	PasswordLength = 16
	passwordChars  = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var ErrInvalidDomain = errors.New("invalid email domain")

// Generate returns n accounts with addresses demo-<hex>@domain and random passwords.
func Generate(n int, domain string, now time.Time) ([]model.DemoAccount, error) {
	domain = strings.TrimSpace(strings.TrimPrefix(domain, "@"))
	if domain == "" || strings.ContainsAny(domain, "@ /") || !strings.Contains(domain, ".") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	accounts := make([]model.DemoAccount, 0, n)
	for i := 0; i < n; i++ {
		local, err := randomHex(6)
		if err != nil {
			return nil, err
		}
		pw, err := Password(PasswordLength)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, model.DemoAccount{
			ID:        uuid.NewString(),
			Email:     "demo-" + local + "@" + domain,
			Password:  pw,
			CreatedAt: now,
		})
	}
	return accounts, nil
}

// Password returns a random password of the given length without look-alike characters.
func Password(length int) (string, error) {
	alphabet := big.NewInt(int64(len(passwordChars)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", fmt.Errorf("poolgen.Password: %w", err)
		}
		b.WriteByte(passwordChars[n.Int64()])
	}
	return b.String(), nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("poolgen.randomHex: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
