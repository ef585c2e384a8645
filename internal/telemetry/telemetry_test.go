package telemetry

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")

	logger := NewLogger(true, logFile)
	logger.Debug("round finished", "round", 3)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "round finished")
	assert.Contains(t, string(data), `"round":3`)
}

func TestNewLogger_NoFile(t *testing.T) {
	logger := NewLogger(false, "")
	require.NotNil(t, logger)
	logger.Info("no file handler configured")
}

func TestMetrics_ObserveRound(t *testing.T) {
	m := NewMetrics()
	m.ObserveRound("O", 1, 2, 3, 4)
	m.ObserveRound("O", 0, 0, 5, 0)
	m.ComparisonDuration.WithLabelValues("O").Observe(12.5)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `benchdelta_rounds_total{opt_level="O"} 2`)
	assert.Contains(t, body, `benchdelta_invocations_total{opt_level="O",side="old"} 2`)
	assert.Contains(t, body, `benchdelta_classified_total{classification="settled",opt_level="O"} 8`)
	assert.Contains(t, body, `benchdelta_pending_benchmarks{opt_level="O"} 0`)
	assert.True(t, strings.Contains(body, "benchdelta_comparison_duration_seconds"))
}
