package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
)

// DatasetStore 导入写入的目标存储
type DatasetStore interface {
	ActiveYear() string
	ReplaceYearSlice(kind model.Kind, year string, records []model.Record) error
}

// Persister 导入前保存撤销快照，导入后安排自动保存
type Persister interface {
	SaveUndoSnapshot() error
	ScheduleSave()
	RecordImport(fileName string, importedCount int, kinds []model.Kind)
}

// Coordinator 导入协调器
type Coordinator struct {
	store      DatasetStore
	recognizer *parser.SheetRecognizer
	persister  Persister
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// Option 协调器可选项
type Option func(*Coordinator)

// WithPersister 设置持久化回调
func WithPersister(p Persister) Option {
	return func(c *Coordinator) { c.persister = p }
}

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store DatasetStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      store,
		recognizer: parser.NewSheetRecognizer(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ImportOptions 导入选项
type ImportOptions struct {
	Filename string
	Data     []byte
	Kind     model.Kind // 为空时按工作表名称识别
	Year     string     // 为空时使用当前年份
}

// Import 执行导入，返回进度通道；通道在导入结束后关闭
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		emit := func(evt ProgressEvent) { c.sendProgress(progressChan, evt) }

		report, err := c.run(ctx, opts, emit)
		if err != nil {
			c.sendFinal(ctx, progressChan, ProgressEvent{
				Type:      EventError,
				Message:   fmt.Sprintf("导入失败: %v", err),
				Data:      report,
				Timestamp: time.Now(),
			})
			return
		}
		c.sendFinal(ctx, progressChan, ProgressEvent{
			Type:      EventDone,
			Message:   fmt.Sprintf("导入完成，成功 %d 个工作表", report.ImportedCount),
			Data:      report,
			Timestamp: time.Now(),
		})
	}()

	return progressChan
}

// ImportFile 同步执行导入
// 格式不支持返回 parser.ErrUnsupportedFormat，解析失败返回 *parser.ParseError，此时存储保持不变
func (c *Coordinator) ImportFile(ctx context.Context, opts ImportOptions) (*ImportReport, error) {
	return c.run(ctx, opts, nil)
}

func (c *Coordinator) run(ctx context.Context, opts ImportOptions, emit func(ProgressEvent)) (*ImportReport, error) {
	if emit == nil {
		emit = func(ProgressEvent) {}
	}
	start := time.Now()
	name := filepath.Base(opts.Filename)

	report := &ImportReport{
		ID:           uuid.NewString(),
		Filename:     name,
		UpdatedKinds: []model.Kind{},
		Sheets:       []SheetResult{},
		StartedAt:    start.UTC(),
	}
	finish := func(err error) (*ImportReport, error) {
		report.Duration = time.Since(start)
		result := "ok"
		if err != nil {
			result = "error"
		}
		c.metrics.ObserveImport(report.Mode, result, report.Duration)
		if err != nil {
			c.logger.Warn("import failed", "file", name, "error", err)
			return report, err
		}
		c.logger.Info("import finished",
			"id", report.ID, "file", name, "mode", report.Mode, "year", report.Year,
			"imported", report.ImportedCount, "skipped", report.SkippedSheets, "rows", report.ImportedRows)
		return report, nil
	}

	if opts.Kind != model.KindUnknown {
		if _, ok := parser.MapperFor(opts.Kind); !ok {
			return finish(fmt.Errorf("%w: %q", model.ErrUnknownKind, opts.Kind))
		}
	}

	year := opts.Year
	if year == "" {
		year = c.store.ActiveYear()
	}
	if !model.ValidYear(year) {
		return finish(fmt.Errorf("%w: %q", model.ErrInvalidYear, year))
	}
	report.Year = year

	format, err := parser.DetectFormat(name, opts.Data)
	if err != nil {
		return finish(err)
	}
	report.Format = format

	emit(ProgressEvent{
		Type:      EventStart,
		Message:   "开始导入文件",
		Data:      map[string]string{"filename": name, "format": string(format), "year": year},
		Timestamp: time.Now(),
	})

	sheets, err := c.parse(ctx, name, opts.Data, format)
	if err != nil {
		return finish(err)
	}
	report.TotalSheets = len(sheets)

	w := &writer{c: c, report: report, year: year, emit: emit}

	smart := opts.Kind == model.KindUnknown || (format.IsWorkbook() && len(sheets) > 1)
	if smart {
		report.Mode = ModeSmart
		for _, sheet := range sheets {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			rec := c.recognizer.Recognize(sheet.Name)
			if !rec.Recognized() {
				w.skip(sheet)
				continue
			}
			w.apply(sheet, rec.Kind)
		}
	}

	if !smart || (report.ImportedCount == 0 && opts.Kind != model.KindUnknown) {
		if len(sheets) == 0 {
			return finish(&parser.ParseError{Format: format, Source: name, Err: errors.New("workbook has no sheets")})
		}
		if smart {
			report.Mode = ModeFallback
		} else {
			report.Mode = ModeExplicit
		}
		w.apply(sheets[0], opts.Kind)
	}

	if report.ImportedCount > 0 && c.persister != nil {
		c.persister.RecordImport(name, report.ImportedCount, report.UpdatedKinds)
		c.persister.ScheduleSave()
	}
	return finish(nil)
}

func (c *Coordinator) parse(ctx context.Context, name string, data []byte, format parser.Format) ([]parser.Sheet, error) {
	if format == parser.FormatCSV {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		sheet, err := parser.ParseCSVBytes(base, data)
		if err != nil {
			return nil, err
		}
		return []parser.Sheet{*sheet}, nil
	}
	wb, err := parser.ParseWorkbook(ctx, name, data, format)
	if err != nil {
		return nil, err
	}
	return wb.Sheets, nil
}

// writer 将映射结果写入存储并记录报告；首次写入前保存撤销快照
type writer struct {
	c        *Coordinator
	report   *ImportReport
	year     string
	emit     func(ProgressEvent)
	undoDone bool
}

func (w *writer) skip(sheet parser.Sheet) {
	w.record(SheetResult{SheetName: sheet.Name, Status: StatusSkipped})
}

func (w *writer) apply(sheet parser.Sheet, kind model.Kind) {
	start := time.Now()
	mapper, _ := parser.MapperFor(kind)
	records := mapper(sheet.Rows)

	if !w.undoDone && w.c.persister != nil {
		if err := w.c.persister.SaveUndoSnapshot(); err != nil {
			w.c.logger.Warn("save undo snapshot failed", "error", err)
		}
		w.undoDone = true
	}

	result := SheetResult{SheetName: sheet.Name, Kind: kind, Rows: len(records)}
	if err := w.c.store.ReplaceYearSlice(kind, w.year, records); err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		result.Rows = 0
	} else {
		result.Status = StatusImported
	}
	result.Duration = time.Since(start)
	w.record(result)
}

func (w *writer) record(result SheetResult) {
	w.report.recordSheetResult(result)
	w.c.metrics.ObserveSheet(string(result.Kind), result.Status, result.Rows)
	w.c.logger.Debug("sheet processed",
		"sheet", result.SheetName, "kind", result.Kind, "status", result.Status, "rows", result.Rows)
	w.emit(ProgressEvent{
		Type:      EventSheet,
		Message:   fmt.Sprintf("工作表 \"%s\": %s", result.SheetName, result.Status),
		Data:      result,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

// sendFinal 发送结束事件，通道已满时等待消费方或 ctx 结束
func (c *Coordinator) sendFinal(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}
