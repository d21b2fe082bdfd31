package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key"

// CreateTestToken creates an HS256 token for subject carrying roles.
func CreateTestToken(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	claims := map[string]interface{}{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}
	_, token, err := NewJWTAuth(testSecret).Encode(claims)
	require.NoError(t, err)
	return token
}

func newProtectedRouter(captured **AuthUser, mw ...func(http.Handler) http.Handler) http.Handler {
	ja := NewJWTAuth(testSecret)
	r := chi.NewRouter()
	r.Use(Verifier(ja))
	r.Use(jwtauth.Authenticator(ja))
	r.Use(AuthUserMiddleware)
	for _, m := range mw {
		r.Use(m)
	}
	handler := func(w http.ResponseWriter, r *http.Request) {
		if u, ok := GetAuthUser(r.Context()); ok {
			*captured = u
		}
		w.WriteHeader(http.StatusOK)
	}
	r.Get("/roles", handler)
	r.Post("/roles", handler)
	r.Post("/roles/filter", handler)
	return r
}

func TestAuthUserMiddleware(t *testing.T) {
	userID := uuid.New()
	var captured *AuthUser
	router := newProtectedRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+CreateTestToken(t, userID.String(), "admin", "auditor"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, []string{"admin", "auditor"}, captured.Roles)
}

func TestAuthUserMiddleware_NonUUIDSubject(t *testing.T) {
	var captured *AuthUser
	router := newProtectedRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+CreateTestToken(t, "service-account"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "service-account", captured.Subject)
	assert.Equal(t, uuid.Nil, captured.UserID)
}

func TestMissingToken(t *testing.T) {
	var captured *AuthUser
	router := newProtectedRouter(&captured)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roles", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}

func TestRequireRoleForWrites(t *testing.T) {
	var captured *AuthUser
	router := newProtectedRouter(&captured, RequireRoleForWrites("admin"))

	tests := []struct {
		name   string
		method string
		path   string
		roles  []string
		want   int
	}{
		{"read without role", http.MethodGet, "/roles", nil, http.StatusOK},
		{"filter without role", http.MethodPost, "/roles/filter", nil, http.StatusOK},
		{"write without role", http.MethodPost, "/roles", []string{"viewer"}, http.StatusForbidden},
		{"write with role", http.MethodPost, "/roles", []string{"admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+CreateTestToken(t, uuid.NewString(), tt.roles...))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestActorID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, ActorID(req.Context()))

	id := uuid.New()
	ctx := WithAuthUser(req.Context(), &AuthUser{Subject: id.String(), UserID: id})
	require.NotNil(t, ActorID(ctx))
	assert.Equal(t, id, *ActorID(ctx))
}
