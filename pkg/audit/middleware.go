// Package audit records an AuditLog entry for every successful mutating
// API request made by an authenticated user account.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-user-mgmt/pkg/auditlog"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
)

// Recorder persists audit entries. *auditlog.AuditLogService satisfies it.
type Recorder interface {
	CreateAuditLog(ctx context.Context, dto auditlog.AuditLogDTO) (auditlog.AuditLogDTO, error)
}

// Config holds the configuration for the audit middleware
type Config struct {
	// Prefix is stripped from the request path before the resource is derived.
	Prefix string
	// Timeout bounds each write to the recorder.
	Timeout time.Duration
	// Observe, when set, is called with "ok" or "error" after each write.
	Observe func(result string)
}

// Middleware handles HTTP request auditing
type Middleware struct {
	recorder Recorder
	config   Config
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewMiddleware creates a new audit middleware instance
func NewMiddleware(recorder Recorder, config Config) (*Middleware, error) {
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	config.Prefix = strings.TrimSuffix(config.Prefix, "/")

	return &Middleware{
		recorder: recorder,
		config:   config,
		now:      time.Now,
	}, nil
}

// Handler audits authenticated create, update and delete requests. Reads,
// filter queries, failed requests and calls on the audit log itself are not
// recorded.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := actionFor(r)
		user, ok := client.GetAuthUser(r.Context())
		if action == "" || !ok || client.ActorID(r.Context()) == nil {
			next.ServeHTTP(w, r)
			return
		}
		segments := m.segments(r.URL.Path)
		if len(segments) == 0 || segments[0] == "audit-logs" || segments[len(segments)-1] == "filter" {
			next.ServeHTTP(w, r)
			return
		}

		var body bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if r.Method == http.MethodPost && len(segments) == 1 {
			ww.Tee(&body)
		}
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status < 200 || status >= 300 {
			return
		}

		resourceID := resourceIDFor(segments, body.Bytes())
		if resourceID == "" {
			slog.Warn("Skipping audit entry without resource id", "method", r.Method, "path", r.URL.Path)
			return
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
		})
		ip := utils.ClientIP(r)
		entry := auditlog.AuditLogDTO{
			UserAccountID: user.UserID,
			Action:        action,
			Resource:      segments[0],
			ResourceID:    resourceID,
			Metadata:      metadata,
			Timestamp:     m.now().UTC(),
		}
		if ip != "" {
			entry.IPAddress = &ip
		}

		m.wg.Add(1)
		go m.record(context.WithoutCancel(r.Context()), entry)
	})
}

func (m *Middleware) record(ctx context.Context, entry auditlog.AuditLogDTO) {
	defer m.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()
	_, err := m.recorder.CreateAuditLog(ctx, entry)
	if err != nil {
		slog.Error("Failed to record audit entry",
			"action", entry.Action,
			"resource", entry.Resource,
			"resourceId", entry.ResourceID,
			"error", err)
	}
	if m.config.Observe != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.config.Observe(result)
	}
}

// Wait blocks until every pending audit entry has been written.
func (m *Middleware) Wait() {
	m.wg.Wait()
}

func (m *Middleware) segments(path string) []string {
	path = strings.TrimPrefix(path, m.config.Prefix)
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func actionFor(r *http.Request) string {
	switch r.Method {
	case http.MethodPost:
		return "CREATE"
	case http.MethodPut, http.MethodPatch:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	}
	return ""
}

// resourceIDFor returns the id in the path, or the id of the created record
// for a top-level POST.
func resourceIDFor(segments []string, body []byte) string {
	if len(segments) > 1 {
		return segments[1]
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return ""
	}
	return created.ID
}
