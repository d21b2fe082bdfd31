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
	"github.com/tendant/simple-user-mgmt/pkg/role"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
)

func newTestRouter() http.Handler {
	handle := NewHandle(role.NewRoleService(role.NewInMemoryRoleRepository()))
	r := chi.NewRouter()
	Routes(r, handle)
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

func TestRoleHandle_Lifecycle(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/roles", map[string]interface{}{
		"id":           uuid.NewString(),
		"name":         "ADMIN",
		"isAssignable": true,
		"scopeType":    "GLOBAL",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created role.RoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "ADMIN", created.Name)

	w = doJSON(t, router, http.MethodGet, "/roles/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/roles/"+created.ID.String(), map[string]interface{}{
		"name":         "ADMIN",
		"description":  "Everything",
		"isAssignable": false,
		"scopeType":    "BRANCH",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated role.RoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, role.ScopeTypeBranch, updated.ScopeType)

	w = doJSON(t, router, http.MethodPost, "/roles/filter", filter.Request{
		Filters: map[string]interface{}{"scopeType": "BRANCH"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var page filter.Page[role.RoleDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)

	w = doJSON(t, router, http.MethodDelete, "/roles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/roles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var errResp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "error", errResp.Status)
	assert.Contains(t, errResp.Message, created.ID.String())
}

func TestRoleHandle_Errors(t *testing.T) {
	router := newTestRouter()
	missing := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"invalid uuid", http.MethodGet, "/roles/not-a-uuid", nil, http.StatusBadRequest},
		{"get missing", http.MethodGet, "/roles/" + missing, nil, http.StatusNotFound},
		{"update missing", http.MethodPut, "/roles/" + missing, map[string]interface{}{"name": "X", "isAssignable": true, "scopeType": "GLOBAL"}, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/roles/" + missing, nil, http.StatusNotFound},
		{"missing required fields", http.MethodPost, "/roles", map[string]interface{}{"name": "X"}, http.StatusBadRequest},
		{"bad scope type", http.MethodPost, "/roles", map[string]interface{}{"name": "X", "isAssignable": true, "scopeType": "PLANET"}, http.StatusBadRequest},
		{"unknown filter field", http.MethodPost, "/roles/filter", map[string]interface{}{"filters": map[string]interface{}{"secret": "x"}}, http.StatusBadRequest},
		{"page number too large", http.MethodPost, "/roles/filter", map[string]interface{}{"pagination": map[string]interface{}{"pageNumber": 922337203685477581, "pageSize": 10}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRoleHandle_DuplicateName(t *testing.T) {
	router := newTestRouter()
	body := map[string]interface{}{"name": "ADMIN", "isAssignable": true, "scopeType": "GLOBAL"}

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/roles", body).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, "/roles", body).Code)
}

func TestRoleHandle_StampsActor(t *testing.T) {
	handle := NewHandle(role.NewRoleService(role.NewInMemoryRoleRepository()))
	actor := uuid.New()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := client.WithAuthUser(req.Context(), &client.AuthUser{Subject: actor.String(), UserID: actor})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	Routes(r, handle)

	w := doJSON(t, r, http.MethodPost, "/roles", map[string]interface{}{"name": "ADMIN", "isAssignable": true, "scopeType": "GLOBAL"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created role.RoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, actor, *created.CreatedBy)
	require.NotNil(t, created.UpdatedBy)
	assert.Equal(t, actor, *created.UpdatedBy)
}
