package middleware

import "context"

type contextKey string

const SessionTokenKey contextKey = "session_token"

// GetSessionToken returns the token set by SessionToken, or "" outside that middleware.
func GetSessionToken(ctx context.Context) string {
	v, _ := ctx.Value(SessionTokenKey).(string)
	return v
}

// WithSessionToken stores token in ctx.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, SessionTokenKey, token)
}
