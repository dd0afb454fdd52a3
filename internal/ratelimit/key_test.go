package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "forwarded-for single hop",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			expected:   "203.0.113.7",
		},
		{
			name:       "forwarded-for takes first hop",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 198.51.100.2"},
			expected:   "203.0.113.7",
		},
		{
			name:       "real-ip when no forwarded-for",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			expected:   "198.51.100.9",
		},
		{
			name:       "forwarded-for wins over real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.7",
				"X-Real-IP":       "198.51.100.9",
			},
			expected: "203.0.113.7",
		},
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.44:5678",
			expected:   "192.0.2.44",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:5678",
			expected:   "2001:db8::1",
		},
		{
			name:       "empty remote addr falls back",
			remoteAddr: "",
			expected:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIP(r))
		})
	}
}

func TestPerPresetKeyFunc(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.44:5678"

	keyFunc := PerPresetKeyFunc(PresetDelete, IPKeyFunc)
	assert.Equal(t, "delete:192.0.2.44", keyFunc(r))
}

func TestUserKeyFunc(t *testing.T) {
	keyFunc := UserKeyFunc("X-User-ID")

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.44:5678"
	assert.Equal(t, "192.0.2.44", keyFunc(r), "falls back to IP without the header")

	r.Header.Set("X-User-ID", "user-7")
	assert.Equal(t, "user-7", keyFunc(r))
}
