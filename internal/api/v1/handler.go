// Package v1 仪表盘 HTTP API
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belajarexportimport-sudo/Oceanland/internal/exporter"
	"github.com/belajarexportimport-sudo/Oceanland/internal/importer"
	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
	"github.com/belajarexportimport-sudo/Oceanland/internal/remote"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/calculator"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/persist"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/store"
)

// 响应码
const (
	CodeOK             = 0
	CodeInvalidParam   = 1001
	CodeMalformedInput = 1002
	CodeNoUndo         = 1003
	CodeThrottled      = 1004
	CodeInternal       = 5001
	CodeRemoteFailed   = 5002
	CodeUnavailable    = 5003
)

// Dependencies 处理器依赖；Syncer 为空表示未启用远程数据源
type Dependencies struct {
	Store       *store.MemoryStore
	Coordinator *importer.Coordinator
	Persist     *persist.Manager
	Engine      *calculator.Engine
	Exporter    *exporter.Exporter
	Syncer      *remote.Syncer
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

// Handler V1 API 处理器
type Handler struct {
	store       *store.MemoryStore
	coordinator *importer.Coordinator
	persist     *persist.Manager
	engine      *calculator.Engine
	exporter    *exporter.Exporter
	syncer      *remote.Syncer
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewHandler 创建处理器
func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:       deps.Store,
		coordinator: deps.Coordinator,
		persist:     deps.Persist,
		engine:      deps.Engine,
		exporter:    deps.Exporter,
		syncer:      deps.Syncer,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/kinds", h.ListKinds)
	router.POST("/years/select", h.SelectYear)

	// 数据集
	router.GET("/datasets/:kind", h.GetDataset)
	router.PATCH("/datasets/:kind/:index", h.UpdateRecord)

	// 汇总指标
	router.GET("/stats", h.GetStats)
	router.PATCH("/stats", h.UpdateStat)
	router.GET("/indicators", h.GetIndicators)

	// 导入导出
	router.POST("/import", h.Import)
	router.POST("/import/stream", h.ImportStream)
	router.GET("/imports/history", h.ImportHistory)
	router.GET("/export", h.Export)

	// 持久化
	router.GET("/snapshot", h.GetSnapshot)
	router.POST("/save", h.Save)
	router.POST("/undo", h.Undo)
	router.POST("/reset", h.Reset)

	// 远程数据源
	router.POST("/remote/refresh", h.RefreshRemote)
}

// Response 通用响应
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// fail 按错误类别返回响应
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, parser.ErrMalformedInput):
		errorResponse(c, http.StatusBadRequest, CodeMalformedInput, err.Error())
	case errors.Is(err, model.ErrUnknownKind),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrInvalidYear):
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
	case errors.Is(err, persist.ErrNoUndo):
		errorResponse(c, http.StatusConflict, CodeNoUndo, "没有可撤销的操作")
	case errors.Is(err, remote.ErrThrottled):
		errorResponse(c, http.StatusTooManyRequests, CodeThrottled, "刷新过于频繁，请稍后再试")
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		errorResponse(c, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}

// yearParam 读取 year 查询参数，缺省为当前年份
func (h *Handler) yearParam(c *gin.Context) (string, bool) {
	year := c.DefaultQuery("year", h.store.ActiveYear())
	if !model.ValidYear(year) {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "年份格式错误")
		return "", false
	}
	return year, true
}

// kindParam 读取路径中的数据集类型
func (h *Handler) kindParam(c *gin.Context) (model.Kind, bool) {
	kind, err := model.ParseKind(c.Param("kind"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
		return model.KindUnknown, false
	}
	return kind, true
}
