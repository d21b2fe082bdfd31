package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

func TestRenderError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    idmerrors.ErrorCode
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "not found",
			err:         idmerrors.NotFound("role", "42"),
			wantStatus:  http.StatusNotFound,
			wantCode:    idmerrors.ErrCodeNotFound,
			wantMessage: "role not found with ID: 42",
		},
		{
			name:        "validation keeps details",
			err:         idmerrors.ValidationFailed(map[string]interface{}{"name": "is required"}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    idmerrors.ErrCodeValidationFailed,
			wantMessage: "validation failed",
			wantDetails: true,
		},
		{
			name:        "unstructured error is hidden",
			err:         errors.New("connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    idmerrors.ErrCodeInternal,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RenderError(w, httptest.NewRequest(http.MethodGet, "/roles", nil), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantDetails, resp.Details != nil)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ADMIN"}`))
	require.NoError(t, DecodeJSON(r, &v, false))
	assert.Equal(t, "ADMIN", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, DecodeJSON(r, &v, true))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSON(r, &v, false)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeInvalidFormat))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err = DecodeJSON(r, &v, true)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeInvalidFormat))
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	var got uuid.UUID
	var gotErr error

	r := chi.NewRouter()
	r.Get("/roles/{roleId}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = URLParamUUID(req, "roleId")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/roles/"+id.String(), nil))
	require.NoError(t, gotErr)
	assert.Equal(t, id, got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/roles/nope", nil))
	assert.True(t, idmerrors.IsCode(gotErr, idmerrors.ErrCodeInvalidInput))
}

func TestPageRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users/x/roles?page=2&size=5&sort=assignedAt&direction=DESC", nil)
	req := PageRequest(r)

	assert.Equal(t, 2, req.Pagination.PageNumber)
	assert.Equal(t, 5, req.Pagination.PageSize)
	assert.Equal(t, "assignedAt", req.Pagination.SortBy)
	assert.Equal(t, "DESC", req.Pagination.SortDirection)
	assert.Empty(t, req.Filters)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.RemoteAddr = "10.1.2.3"
	assert.Equal(t, "10.1.2.3", ClientIP(r))
}
