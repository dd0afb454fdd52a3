package ratelimit

import (
	"net/http"
	"strings"
)

// fallbackIdentifier is used when no client address can be determined.
const fallbackIdentifier = "unknown"

// KeyFunc is a function that extracts a rate limit key from an HTTP request.
type KeyFunc func(r *http.Request) string

// IPKeyFunc returns the client IP as the rate limit key.
func IPKeyFunc(r *http.Request) string {
	return ClientIP(r)
}

// ClientIP extracts the client IP from the request: the first hop of
// X-Forwarded-For, then X-Real-IP, then the transport address, then a
// constant fallback.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	ip = strings.TrimPrefix(ip, "[")
	ip = strings.TrimSuffix(ip, "]")

	if ip == "" {
		return fallbackIdentifier
	}
	return ip
}

// PerPresetKeyFunc prefixes the base key with a preset name so that each
// preset tracks its own window per client.
func PerPresetKeyFunc(preset string, base KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		return preset + ":" + base(r)
	}
}

// UserKeyFunc keys by a caller identity header when present, falling back
// to the client IP for anonymous requests.
func UserKeyFunc(header string) KeyFunc {
	return func(r *http.Request) string {
		if v := r.Header.Get(header); v != "" {
			return v
		}
		return ClientIP(r)
	}
}
