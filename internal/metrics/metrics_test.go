package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	t.Parallel()

	c := New()
	c.ObserveImport("smart", "ok", 20*time.Millisecond)
	c.ObserveSheet("revenue", "imported", 12)
	c.ObserveSheet("", "skipped", 0)
	c.ObserveSave("file", nil)
	c.ObserveSave("file", errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.imports.WithLabelValues("smart", "ok")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.importedRows.WithLabelValues("revenue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sheets.WithLabelValues("unknown", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.saves.WithLabelValues("file", "error")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	t.Parallel()

	var c *Collector
	c.ObserveImport("smart", "ok", time.Second)
	c.ObserveSheet("kpi", "imported", 1)
	c.ObserveMutation("kpi", "ok")
	c.ObserveRemote("error", time.Second)
	c.ObserveSave("sqlite", nil)
	assert.NotNil(t, c.Handler())
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	c := New()
	c.ObserveRemote("ok", 50*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "oceanland_remote_syncs_total"))
}
