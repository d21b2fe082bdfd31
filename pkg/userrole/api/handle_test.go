package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/userrole"
)

func newTestRouter(actor *uuid.UUID) http.Handler {
	r := chi.NewRouter()
	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := client.WithAuthUser(req.Context(), &client.AuthUser{Subject: actor.String(), UserID: *actor})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	Routes(r, NewHandle(userrole.NewUserRoleService(userrole.NewInMemoryUserRoleRepository())))
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestUserRoleHandle_NestedAssignment(t *testing.T) {
	actor := uuid.New()
	router := newTestRouter(&actor)
	userID, roleID := uuid.New(), uuid.New()
	base := "/users/" + userID.String() + "/roles"

	w := doJSON(t, router, http.MethodPost, base, map[string]string{"roleId": roleID.String()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var assigned userrole.UserRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assigned))
	assert.Equal(t, userID, assigned.UserAccountID)
	assert.Equal(t, actor, assigned.AssignedBy)
	assert.False(t, assigned.AssignedAt.IsZero())

	w = doJSON(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page filter.Page[userrole.UserRoleDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)

	assert.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodDelete, base+"/"+roleID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodDelete, base+"/"+roleID.String(), nil).Code)
}

func TestUserRoleHandle_AnonymousAssignmentNeedsAssigner(t *testing.T) {
	router := newTestRouter(nil)
	base := "/users/" + uuid.NewString() + "/roles"

	w := doJSON(t, router, http.MethodPost, base, map[string]string{"roleId": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, base, map[string]string{
		"roleId":     uuid.NewString(),
		"assignedBy": uuid.NewString(),
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestUserRoleHandle_CreateRequiresAssignment(t *testing.T) {
	router := newTestRouter(nil)

	w := doJSON(t, router, http.MethodPost, "/user-roles", map[string]string{
		"userAccountId": uuid.NewString(),
		"roleId":        uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/user-roles", map[string]string{
		"userAccountId": uuid.NewString(),
		"roleId":        uuid.NewString(),
		"assignedAt":    "2024-03-01T12:00:00Z",
		"assignedBy":    uuid.NewString(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created userrole.UserRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/user-roles/"+created.ID.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/user-roles/nope", nil).Code)
}
