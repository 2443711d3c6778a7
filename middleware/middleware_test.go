package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, auth *Authenticator, roles ...string) (http.Handler, *string) {
	t.Helper()
	var editor string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := GetEditorFromContext(r.Context())
		require.NoError(t, err)
		editor = name
		w.WriteHeader(http.StatusNoContent)
	})
	var h http.Handler = final
	if len(roles) > 0 {
		h = Authorize(roles...)(h)
	}
	return auth.Authenticate(h), &editor
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator("test-secret", nil)
	other := NewAuthenticator("other-secret", nil)

	valid, err := auth.IssueToken(7, "Referee Rita", RoleReferee, time.Hour)
	require.NoError(t, err)
	foreign, err := other.IssueToken(7, "Referee Rita", RoleReferee, time.Hour)
	require.NoError(t, err)
	expired, err := auth.IssueToken(7, "Referee Rita", RoleReferee, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "valid bearer", header: "Bearer " + valid, want: http.StatusNoContent},
		{name: "query token", query: valid, want: http.StatusNoContent},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, want: http.StatusUnauthorized},
		{name: "foreign signature", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, editor := protected(t, auth)
			target := "/fixtures/1/save"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "Referee Rita", *editor)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	auth := NewAuthenticator("test-secret", nil)
	referee, err := auth.IssueToken(3, "", RoleReferee, time.Hour)
	require.NoError(t, err)
	admin, err := auth.IssueToken(1, "root", RoleAdmin, time.Hour)
	require.NoError(t, err)

	h, editor := protected(t, auth, RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/admin/stats/sync", nil)
	req.Header.Set("Authorization", "Bearer "+referee)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/stats/sync", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "root", *editor)
}

func TestGetEditorFromContext_FallsBackToUserID(t *testing.T) {
	auth := NewAuthenticator("test-secret", nil)
	token, err := auth.IssueToken(42, "  ", RoleReferee, time.Hour)
	require.NoError(t, err)

	h, editor := protected(t, auth)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user:42", *editor)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/fixtures/1/goals", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"), "budgets are per client")
}
