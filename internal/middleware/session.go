package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/votemonitor/internal/logger"
)

// SessionCookie describes the visitor token cookie.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionToken makes sure every request carries a visitor token before the handler runs.
// A valid UUID in the cookie is reused as is (its expiry is not extended); otherwise a new
// token is generated and written with a fixed Max-Age.
func SessionToken(c SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(c.Name); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil {
					token = id.String()
				}
			}
			if token == "" {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     c.Name,
					Value:    token,
					Path:     "/",
					MaxAge:   int(c.TTL.Seconds()),
					Expires:  time.Now().Add(c.TTL),
					HttpOnly: true,
					Secure:   c.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debugf("session token issued token=%s", logger.MaskToken(token))
			}
			next.ServeHTTP(w, r.WithContext(WithSessionToken(r.Context(), token)))
		})
	}
}
