package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// AuthUser is the caller identity extracted from a verified JWT.
type AuthUser struct {
	Subject string
	// UserID is the subject parsed as a user account id, uuid.Nil when the
	// subject is not a UUID.
	UserID uuid.UUID
	Roles  []string
}

func (i AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("subject", i.Subject),
		slog.Any("roles", i.Roles),
	)
}

// HasAnyRole reports whether the user holds at least one of roles.
func (i AuthUser) HasAnyRole(roles ...string) bool {
	for _, have := range i.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "usermgmt context value " + k.name
}

var (
	AuthUserKey = &contextKey{"AuthUser"}
)

// NewJWTAuth returns an HS256 verifier for secret.
func NewJWTAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// Verifier looks for a token in the Authorization header first, then the
// access_token cookie.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie)
}

// AuthUserMiddleware turns the claims verified by jwtauth into an AuthUser on
// the request context. It must run after jwtauth.Authenticator.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			http.Error(w, "missing or invalid JWT", http.StatusUnauthorized)
			return
		}

		authUser := &AuthUser{}
		if sub, ok := claims["sub"].(string); ok {
			authUser.Subject = sub
			if id, err := uuid.Parse(sub); err == nil {
				authUser.UserID = id
			}
		}
		if rawRoles, ok := claims["roles"].([]interface{}); ok {
			for _, raw := range rawRoles {
				if role, ok := raw.(string); ok {
					authUser.Roles = append(authUser.Roles, role)
				}
			}
		}

		slog.Debug("Authenticated request", "user", authUser)
		next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), authUser)))
	})
}

// WithAuthUser stores u on ctx.
func WithAuthUser(ctx context.Context, u *AuthUser) context.Context {
	return context.WithValue(ctx, AuthUserKey, u)
}

// GetAuthUser returns the authenticated caller, if any.
func GetAuthUser(ctx context.Context) (*AuthUser, bool) {
	u, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return u, ok && u != nil
}

// ActorID returns the authenticated user account id, or nil when the request
// is anonymous or the subject is not a user account id.
func ActorID(ctx context.Context) *uuid.UUID {
	u, ok := GetAuthUser(ctx)
	if !ok || u.UserID == uuid.Nil {
		return nil
	}
	id := u.UserID
	return &id
}
