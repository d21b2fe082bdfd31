package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signWithIssuer mints a token the way an upstream identity service does.
func signWithIssuer(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthUserMiddleware_ExternalIssuer(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	tests := []struct {
		name     string
		secret   string
		claims   jwt.MapClaims
		wantCode int
	}{
		{
			name:   "valid token",
			secret: testSecret,
			claims: jwt.MapClaims{
				"sub":   userID.String(),
				"iss":   "https://idm.example.com",
				"iat":   now.Unix(),
				"exp":   now.Add(time.Hour).Unix(),
				"roles": []string{"admin"},
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong secret",
			secret:   "another-secret",
			claims:   jwt.MapClaims{"sub": userID.String(), "exp": now.Add(time.Hour).Unix()},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired",
			secret:   testSecret,
			claims:   jwt.MapClaims{"sub": userID.String(), "exp": now.Add(-time.Hour).Unix()},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *AuthUser
			router := newProtectedRouter(&captured, RequireRoleForWrites("admin"))

			req := httptest.NewRequest(http.MethodPost, "/roles", nil)
			req.Header.Set("Authorization", "Bearer "+signWithIssuer(t, tt.secret, tt.claims))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, userID, captured.UserID)
				assert.Equal(t, []string{"admin"}, captured.Roles)
			}
		})
	}
}
