// Package server 组装 HTTP 路由与服务生命周期
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/belajarexportimport-sudo/Oceanland/internal/api/v1"
	"github.com/belajarexportimport-sudo/Oceanland/internal/config"
	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	cfg     *config.AppConfig
	logger  *slog.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, handler *v1.Handler, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	s := &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
	}
	s.setupRoutes(handler, collector)

	s.httpSrv = &http.Server{
		Addr:         net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(handler *v1.Handler, collector *metrics.Collector) {
	s.router.Use(requestID())
	if s.cfg.Server.DevMode {
		s.router.Use(gin.Logger())
	} else {
		s.router.Use(requestLogger(s.logger))
	}
	s.router.Use(recovery(s.logger))
	s.router.Use(cors(s.cfg.Server.AllowedOrigins))
	s.router.Use(maxBodySize(int64(s.cfg.Server.MaxUploadMB) << 20))

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if collector != nil {
		s.router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	api := s.router.Group("/api")
	{
		handler.RegisterRoutes(api)
	}
}

// Handler 返回路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Run 启动服务器，ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
