package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const PeerAddrKey contextKey = "peer_addr"

// PeerAddr returns the address of the connection's direct peer, before any forwarded
// header was applied. Outside TrustedRealIP it is the request's RemoteAddr host.
func PeerAddr(r *http.Request) string {
	if v, ok := r.Context().Value(PeerAddrKey).(string); ok && v != "" {
		return v
	}
	return clientIP(r)
}

// TrustedRealIP records the direct peer and, only when that peer is a trusted proxy,
// rewrites RemoteAddr to the client taken from X-Forwarded-For (rightmost hop that is
// not itself a trusted proxy) or X-Real-IP. Requests from anyone else keep their
// socket address, whatever headers they carry.
func TrustedRealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer := clientIP(r)
			r = r.WithContext(context.WithValue(r.Context(), PeerAddrKey, peer))
			if isTrusted(peer, trusted) {
				if ip := forwardedClient(r, trusted); ip != "" {
					r.RemoteAddr = net.JoinHostPort(ip, "0")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedClient(r *http.Request, trusted []netip.Prefix) string {
	var hops []string
	for _, h := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(h, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			return ""
		}
		if !isTrusted(addr.String(), trusted) {
			return addr.Unmap().String()
		}
	}
	if len(hops) > 0 {
		// Every hop is a proxy; the leftmost one is the closest thing to a client.
		return hops[0]
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.Unmap().String()
	}
	return ""
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
