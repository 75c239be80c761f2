package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belajarexportimport-sudo/Oceanland/internal/exporter"
	"github.com/belajarexportimport-sudo/Oceanland/internal/remote"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export 导出年度数据工作簿
// GET /api/export?year=
func (h *Handler) Export(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	file, err := h.exporter.Export(exporter.ExportOptions{
		Year: year,
		Progress: func(p exporter.ProgressEvent) {
			h.logger.Debug("export progress", "year", year, "percent", p.Percent, "stage", p.Stage)
		},
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+exporter.FileName(year))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		h.logger.Error("write export failed", "year", year, "error", err)
	}
}

// Save 立即持久化
// POST /api/save
func (h *Handler) Save(c *gin.Context) {
	if h.persist == nil {
		errorResponse(c, http.StatusServiceUnavailable, CodeUnavailable, "持久化不可用")
		return
	}
	if err := h.persist.SaveNow(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	success(c, gin.H{"saved": true})
}

// Undo 撤销上一次修改
// POST /api/undo
func (h *Handler) Undo(c *gin.Context) {
	if h.persist == nil {
		errorResponse(c, http.StatusServiceUnavailable, CodeUnavailable, "持久化不可用")
		return
	}
	if err := h.persist.UndoLast(); err != nil {
		h.fail(c, err)
		return
	}
	success(c, gin.H{"activeYear": h.store.ActiveYear()})
}

// Reset 清空全部数据并恢复初始数据
// POST /api/reset
func (h *Handler) Reset(c *gin.Context) {
	if h.persist == nil {
		errorResponse(c, http.StatusServiceUnavailable, CodeUnavailable, "持久化不可用")
		return
	}
	if err := h.persist.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("dashboard data reset")
	success(c, gin.H{"activeYear": h.store.ActiveYear()})
}

// RefreshRemote 立即从远程数据源同步
// POST /api/remote/refresh
func (h *Handler) RefreshRemote(c *gin.Context) {
	if h.syncer == nil {
		errorResponse(c, http.StatusServiceUnavailable, CodeUnavailable, "远程数据源未启用")
		return
	}
	result, err := h.syncer.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, remote.ErrThrottled) {
			h.fail(c, err)
			return
		}
		errorResponse(c, http.StatusBadGateway, CodeRemoteFailed, "远程数据获取失败: "+err.Error())
		return
	}
	success(c, result)
}
