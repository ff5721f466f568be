package middleware

import (
	"net"
	"net/http"
	"os"
	"strings"
)

// InternalOnly lets a request through with X-Internal-Secret == INTERNAL_SECRET, or when both
// the direct peer and the resolved client address are private. Forwarded headers from an
// untrusted peer never change the answer.
// Pool statistics are not exposed publicly.
func InternalOnly(next http.Handler) http.Handler {
	secret := strings.TrimSpace(os.Getenv("INTERNAL_SECRET"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret != "" && r.Header.Get("X-Internal-Secret") == secret {
			next.ServeHTTP(w, r)
			return
		}
		if isPrivateIP(PeerAddr(r)) && isPrivateIP(clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}

func isPrivateIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}
