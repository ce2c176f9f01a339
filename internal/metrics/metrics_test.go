package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("ok", time.Second)
	m.ParseFailure()
	m.StatusToggle("used")
	m.AuthAttempt("signin", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from nil handler, got %d", rec.Code)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := New(func() int { return 3 })
	m.ObserveFetch("ok", 10*time.Millisecond)
	m.ObserveFetch("ok", 20*time.Millisecond)
	m.ObserveFetch("timed_out", 15*time.Second)
	m.StatusToggle("damaged")

	if got := testutil.ToFloat64(m.fetches.WithLabelValues("ok")); got != 2 {
		t.Errorf("Expected 2 ok fetches, got %v", got)
	}
	if got := testutil.ToFloat64(m.statusToggles.WithLabelValues("damaged")); got != 1 {
		t.Errorf("Expected 1 damaged toggle, got %v", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 3 {
		t.Errorf("Expected 3 active sessions, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New(nil)
	m.ObserveHTTP(http.MethodGet, "/sheet", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dollsheet_http_requests_total") {
		t.Error("Expected http request counter in output")
	}
}
