package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Code    idmerrors.ErrorCode    `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError writes err as JSON with the status derived from its code.
// Server-side failures are logged and their cause is not returned.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	code := idmerrors.GetCode(err)
	status := idmerrors.MapErrorCodeToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	resp := ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: idmerrors.GetMessage(err),
	}
	if status < http.StatusInternalServerError {
		resp.Details = idmerrors.GetDetails(err)
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// RenderJSON writes body with the given status.
func RenderJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	render.Status(r, status)
	render.JSON(w, r, body)
}

// DecodeJSON reads the request body into v. An empty body leaves v untouched
// when allowEmpty is set.
func DecodeJSON(r *http.Request, v interface{}, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return idmerrors.Wrap(err, idmerrors.ErrCodeInvalidFormat, "invalid request body")
}

// URLParamUUID parses the named chi path parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, idmerrors.InvalidInput(name, "must be a UUID").WithDetail(name, raw)
	}
	return id, nil
}

// PageRequest builds a filter request from the page, size, sort and
// direction query parameters used by the nested GET routes.
func PageRequest(r *http.Request) filter.Request {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	req := filter.NewRequest(page, size)
	req.Pagination.SortBy = q.Get("sort")
	req.Pagination.SortDirection = q.Get("direction")
	return req
}

// ClientIP returns the caller address as seen after chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
