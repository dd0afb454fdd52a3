package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueUniqueTokens(t *testing.T) {
	m := NewManager()

	first, err := m.Issue()
	require.NoError(t, err)
	assert.Len(t, first, tokenBytes*2)

	second, err := m.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestManager_SetCookie(t *testing.T) {
	m := NewManager(WithSecureCookie(true), WithCookieMaxAge(3600))
	w := httptest.NewRecorder()

	m.SetCookie(w, "token-value")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.Secure)
	assert.False(t, cookie.HttpOnly, "client script must read the token")
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestManager_Validate(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name     string
		cookie   string
		header   string
		expected error
	}{
		{
			name:     "matching tokens",
			cookie:   "abc123",
			header:   "abc123",
			expected: nil,
		},
		{
			name:     "missing cookie",
			header:   "abc123",
			expected: ErrMissingCookie,
		},
		{
			name:     "missing header",
			cookie:   "abc123",
			expected: ErrMissingToken,
		},
		{
			name:     "mismatched tokens",
			cookie:   "abc123",
			header:   "def456",
			expected: ErrTokenMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/persons", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set(HeaderName, tt.header)
			}

			err := m.Validate(r)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestManager_TokenFromCookie(t *testing.T) {
	m := NewManager()

	r := httptest.NewRequest(http.MethodGet, "/api/csrf", nil)
	assert.Empty(t, m.TokenFromCookie(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "existing"})
	assert.Equal(t, "existing", m.TokenFromCookie(r))
}

func TestIsSafeMethod(t *testing.T) {
	assert.True(t, IsSafeMethod(http.MethodGet))
	assert.True(t, IsSafeMethod(http.MethodHead))
	assert.True(t, IsSafeMethod(http.MethodOptions))
	assert.False(t, IsSafeMethod(http.MethodPost))
	assert.False(t, IsSafeMethod(http.MethodPut))
	assert.False(t, IsSafeMethod(http.MethodDelete))
	assert.False(t, IsSafeMethod(http.MethodPatch))
}
