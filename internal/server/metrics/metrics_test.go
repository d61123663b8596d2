package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTP(t *testing.T) {
	m := New()

	m.ObserveHTTP("get", "/supplements/:user_id", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "/supplements/:user_id", 200, 20*time.Millisecond)
	m.ObserveHTTP("POST", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/supplements/:user_id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "unmatched", "404")))
}

func TestInFlight(t *testing.T) {
	m := New()
	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
}

func TestObserveCompletion(t *testing.T) {
	m := New()
	m.ObserveCompletion(OutcomeRetryable, time.Second)
	m.ObserveCompletion(OutcomeSuccess, time.Second)
	m.ObserveCompletion(OutcomeSuccess, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.completionAttempts.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completionAttempts.WithLabelValues(OutcomeRetryable)))
}

func TestHandler_ExposesNamespace(t *testing.T) {
	m := New()
	m.ObserveCompletion(OutcomeSuccess, time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sarkie_completion_attempts_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.ObserveCompletion(OutcomeSuccess, time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.completionAttempts.WithLabelValues(OutcomeSuccess)))
}
