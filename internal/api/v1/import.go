package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/belajarexportimport-sudo/Oceanland/internal/importer"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

// readImportOptions 读取上传文件与可选的 kind、year 表单字段
func (h *Handler) readImportOptions(c *gin.Context) (importer.ImportOptions, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "未找到上传文件")
		return importer.ImportOptions{}, false
	}
	f, err := fh.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "读取上传文件失败")
		return importer.ImportOptions{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "读取上传文件失败")
		return importer.ImportOptions{}, false
	}

	return importer.ImportOptions{
		Filename: fh.Filename,
		Data:     data,
		Kind:     model.Kind(c.PostForm("kind")),
		Year:     c.PostForm("year"),
	}, true
}

// Import 导入 CSV / Excel 文件
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	opts, ok := h.readImportOptions(c)
	if !ok {
		return
	}

	report, err := h.coordinator.ImportFile(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, report)
}

// ImportStream 导入文件 (SSE 流式响应)
// POST /api/import/stream
func (h *Handler) ImportStream(c *gin.Context) {
	opts, ok := h.readImportOptions(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, http.StatusInternalServerError, CodeInternal, "不支持流式响应")
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	for event := range h.coordinator.Import(c.Request.Context(), opts) {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ImportHistory 最近的导入历史
// GET /api/imports/history?limit=
func (h *Handler) ImportHistory(c *gin.Context) {
	if h.persist == nil {
		errorResponse(c, http.StatusServiceUnavailable, CodeUnavailable, "持久化不可用")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "limit 参数错误")
		return
	}

	items, err := h.persist.ImportHistory(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []model.ImportLog{}
	}
	success(c, items)
}
