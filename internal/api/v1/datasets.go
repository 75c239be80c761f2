package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/belajarexportimport-sudo/Oceanland/internal/exporter"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
)

// StatusResponse 系统状态
type StatusResponse struct {
	ActiveYear       string             `json:"activeYear"`
	Years            []string           `json:"years"`
	Counts           map[model.Kind]int `json:"counts"`
	Backend          string             `json:"backend"`
	CanUndo          bool               `json:"canUndo"`
	RemoteEnabled    bool               `json:"remoteEnabled"`
	LastRemoteUpdate *time.Time         `json:"lastRemoteUpdate,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	year := h.store.ActiveYear()
	resp := StatusResponse{
		ActiveYear:    year,
		Years:         h.store.Years(),
		Counts:        h.store.Counts(year),
		RemoteEnabled: h.syncer != nil,
	}
	if h.persist != nil {
		resp.Backend = h.persist.Backend()
		resp.CanUndo = h.persist.CanUndo()
	}
	if at := h.store.LastRemoteUpdate(); !at.IsZero() {
		resp.LastRemoteUpdate = &at
	}
	success(c, resp)
}

// KindInfo 数据集类型说明
type KindInfo struct {
	Kind       model.Kind         `json:"kind"`
	SheetTitle string             `json:"sheetTitle"`
	Fields     []parser.FieldSpec `json:"fields"`
}

// ListKinds 列出数据集类型及可识别的表头
// GET /api/kinds
func (h *Handler) ListKinds(c *gin.Context) {
	items := make([]KindInfo, 0, len(model.Kinds))
	for _, kind := range model.Kinds {
		items = append(items, KindInfo{
			Kind:       kind,
			SheetTitle: exporter.SheetTitles[kind],
			Fields:     parser.Schemas[kind].Fields,
		})
	}
	success(c, items)
}

// SelectYear 切换当前年份，缺失的数据集以零值结构补齐
// POST /api/years/select
func (h *Handler) SelectYear(c *gin.Context) {
	var req struct {
		Year string `json:"year" binding:"required,len=4,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return
	}

	seeded, err := h.store.SelectYear(req.Year)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.persist != nil {
		h.persist.ScheduleSave()
	}
	success(c, gin.H{
		"activeYear":  req.Year,
		"seededKinds": seeded,
	})
}

// GetDataset 获取某数据集某年份的记录
// GET /api/datasets/:kind?year=
func (h *Handler) GetDataset(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	records, err := h.store.GetView(kind, year)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, gin.H{
		"kind":    kind,
		"year":    year,
		"records": records,
	})
}

// UpdateRecordRequest 修改单个字段
type UpdateRecordRequest struct {
	Year  string `json:"year" binding:"omitempty,len=4,numeric"`
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// UpdateRecord 修改某年份视图中第 index 条记录的单个字段
// PATCH /api/datasets/:kind/:index
func (h *Handler) UpdateRecord(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "记录序号错误")
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return
	}
	if req.Year == "" {
		req.Year = h.store.ActiveYear()
	}

	before := h.undoBase()
	changed, err := h.store.MutateField(kind, req.Year, index, req.Field, req.Value)
	if err != nil {
		h.metrics.ObserveMutation(string(kind), "error")
		h.fail(c, err)
		return
	}
	if !changed {
		h.metrics.ObserveMutation(string(kind), "noop")
		success(c, gin.H{"changed": false})
		return
	}

	h.metrics.ObserveMutation(string(kind), "ok")
	h.commitEdit(before)

	view, err := h.store.GetView(kind, req.Year)
	if err != nil {
		h.fail(c, err)
		return
	}
	var record model.Record
	if index < len(view) {
		record = view[index]
	}
	success(c, gin.H{
		"changed": true,
		"record":  record,
	})
}

// undoBase 写入前的状态，写入成功后才成为撤销快照
func (h *Handler) undoBase() *model.Snapshot {
	if h.persist == nil {
		return nil
	}
	return h.store.Snapshot()
}

func (h *Handler) commitEdit(before *model.Snapshot) {
	if h.persist == nil {
		return
	}
	h.persist.SetUndoSnapshot(before)
	h.persist.ScheduleSave()
}

// GetStats 获取年度汇总指标
// GET /api/stats?year=
func (h *Handler) GetStats(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	success(c, h.store.GetStats(year))
}

// UpdateStatRequest 修改汇总指标
type UpdateStatRequest struct {
	Year  string `json:"year" binding:"omitempty,len=4,numeric"`
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value"`
}

// UpdateStat 修改年度汇总指标的单个键
// PATCH /api/stats
func (h *Handler) UpdateStat(c *gin.Context) {
	var req UpdateStatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return
	}
	if req.Year == "" {
		req.Year = h.store.ActiveYear()
	}

	before := h.undoBase()
	stats, err := h.store.UpdateStat(req.Year, req.Key, req.Value)
	if err != nil {
		h.metrics.ObserveMutation("stats", "error")
		h.fail(c, err)
		return
	}
	h.metrics.ObserveMutation("stats", "ok")
	h.commitEdit(before)
	success(c, stats)
}

// GetIndicators 获取年度派生指标
// GET /api/indicators?year=
func (h *Handler) GetIndicators(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	ind, err := h.engine.Calculate(year)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, ind)
}

// GetSnapshot 获取完整快照
// GET /api/snapshot
func (h *Handler) GetSnapshot(c *gin.Context) {
	success(c, h.store.Snapshot())
}
