package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusExporter_Counters(t *testing.T) {
	e := NewPrometheusExporter()

	e.RecordTurn("query", 120*time.Millisecond, true)
	e.RecordTurn("query", 80*time.Millisecond, true)
	e.RecordTurn("save_note", time.Second, false)
	e.RecordSearch("synonym")
	e.RecordFailure("store.query")
	e.RecordSendFailure("telegram")

	assert.Equal(t, 2.0, testutil.ToFloat64(e.turns.WithLabelValues("query", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.turns.WithLabelValues("save_note", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.searchTiers.WithLabelValues("synonym")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.failures.WithLabelValues("store.query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.sendFailures.WithLabelValues("telegram")))
}

func TestPrometheusExporter_Handler(t *testing.T) {
	e := NewPrometheusExporter()
	e.RecordSearch("exact")

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `notes_bot_search_results_total{tier="exact"} 1`))
}
