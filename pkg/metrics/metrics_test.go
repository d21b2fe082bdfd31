package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/roles/{roleId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/roles/"+id, nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/roles/{roleId}", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.SetBuildInfo("1.2.3")
	m.ObserveAuditEntry("ok")
	m.ObserveAuditEntry("error")
	m.ObserveAuditEntry("ok")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.auditEntries.WithLabelValues("ok")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `usermgmt_build_info{version="1.2.3"} 1`)
	assert.Contains(t, string(body), `usermgmt_audit_entries_total{result="error"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
