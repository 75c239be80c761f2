package importer

import (
	"time"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
)

// 导入模式
const (
	ModeSmart    = "smart"    // 按工作表名称识别
	ModeExplicit = "explicit" // 使用调用方指定的数据集类型
	ModeFallback = "fallback" // 智能识别无结果，按指定类型导入首个工作表
)

// 工作表处理状态
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
	StatusError    = "error"
)

// SheetResult 单个工作表的处理结果
type SheetResult struct {
	SheetName string        `json:"sheetName"`
	Kind      model.Kind    `json:"kind,omitempty"`
	Status    string        `json:"status"`
	Rows      int           `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// ImportReport 导入报告
type ImportReport struct {
	ID            string        `json:"id"`
	Filename      string        `json:"filename"`
	Format        parser.Format `json:"format"`
	Mode          string        `json:"mode"`
	Year          string        `json:"year"`
	TotalSheets   int           `json:"totalSheets"`
	ImportedCount int           `json:"importedCount"`
	SkippedSheets int           `json:"skippedSheets"`
	ErrorSheets   int           `json:"errorSheets"`
	ImportedRows  int           `json:"importedRows"`
	UpdatedKinds  []model.Kind  `json:"updatedKinds"`
	Sheets        []SheetResult `json:"sheets"`
	StartedAt     time.Time     `json:"startedAt"`
	Duration      time.Duration `json:"duration"`
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/sheet/done/error
	Message   string    `json:"message"` // 事件消息
	Data      any       `json:"data"`    // 附加数据
	Timestamp time.Time `json:"timestamp"`
}

// 进度事件类型
const (
	EventStart = "start"
	EventSheet = "sheet"
	EventDone  = "done"
	EventError = "error"
)

// recordSheetResult 记录工作表处理结果
func (r *ImportReport) recordSheetResult(result SheetResult) {
	r.Sheets = append(r.Sheets, result)

	switch result.Status {
	case StatusImported:
		r.ImportedCount++
		r.ImportedRows += result.Rows
		for _, k := range r.UpdatedKinds {
			if k == result.Kind {
				return
			}
		}
		r.UpdatedKinds = append(r.UpdatedKinds, result.Kind)
	case StatusSkipped:
		r.SkippedSheets++
	case StatusError:
		r.ErrorSheets++
	}
}
