package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/belajarexportimport-sudo/Oceanland/internal/api/v1"
	"github.com/belajarexportimport-sudo/Oceanland/internal/config"
	"github.com/belajarexportimport-sudo/Oceanland/internal/importer"
	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/store"
)

func newTestServer(t *testing.T, mutate func(*config.AppConfig)) (*Server, *metrics.Collector) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	if mutate != nil {
		mutate(cfg)
	}
	st := store.NewMemoryStore()
	st.Restore(model.SeedSnapshot())
	collector := metrics.New()

	handler := v1.NewHandler(v1.Dependencies{
		Store:       st,
		Coordinator: importer.NewCoordinator(st, importer.WithMetrics(collector)),
		Metrics:     collector,
	})
	return NewServer(cfg, handler, collector, nil), collector
}

func TestServer_HealthAndRequestID(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "kpi.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("division,progress,actual\nSales,50,40\n"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "oceanland_imports_total")
}

func TestServer_CORS(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.AppConfig) {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_UploadLimit(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.AppConfig) { c.Server.MaxUploadMB = 1 })

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "big.csv")
	require.NoError(t, err)
	_, _ = fw.Write(bytes.Repeat([]byte("a"), 2<<20))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Recovery(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "5001")
}

func TestServer_RunShutdown(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.AppConfig) {
		c.Server.Port = 0
		c.Server.ShutdownTimeout = config.Duration(time.Second)
	})
	s.httpSrv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
