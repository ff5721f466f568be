package middleware

import (
	"net/http"
	"time"

	"github.com/votemonitor/internal/logger"
)

// RequestLog reports slow requests (every request at debug level).
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer logger.DeferLogDuration("http "+r.Method+" "+r.URL.Path, time.Now())()
		next.ServeHTTP(w, r)
	})
}
