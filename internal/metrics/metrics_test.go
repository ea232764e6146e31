package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Deckwright/internal/calcerr"
)

func TestObserveGeneration(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveGeneration(2, nil, 3*time.Millisecond)
	m.ObserveGeneration(0, calcerr.New(calcerr.CodeSpanExceeded, "too long"), time.Millisecond)
	m.ObserveGeneration(0, errors.New("boom"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("ok", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("error", "SPAN_EXCEEDED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("error", "INTERNAL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ComplianceWarnings))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveGeneration(1, nil, time.Second) })
}

func TestHandler(t *testing.T) {
	reg, m := NewRegistry()
	m.ObserveGeneration(0, nil, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "deckwright_generations_total"))
}
