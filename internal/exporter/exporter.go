// Package exporter 将年度数据导出为 Excel 工作簿
package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
)

// SheetTitles 各数据集导出的工作表名称，名称可被智能导入识别回原数据集
var SheetTitles = map[model.Kind]string{
	model.KindRevenue:      "Revenue",
	model.KindKPI:          "KPI",
	model.KindBudget:       "Budget",
	model.KindPipeline:     "Pipeline",
	model.KindProductSales: "Product Sales",
	model.KindGrowthRate:   "Growth Rate",
	model.KindProfitMargin: "Profit Margin",
	model.KindCashFlow:     "Cash Flow",
	model.KindMarketShare:  "Market Share",
	model.KindSegmentation: "Segmentation",
	model.KindARTurnover:   "AR Turnover",
}

// SummarySheet 汇总指标工作表名称（导入时不会被识别）
const SummarySheet = "Summary"

// Source 导出数据来源
type Source interface {
	GetView(kind model.Kind, year string) ([]model.Record, error)
	GetStats(year string) model.SummaryStats
}

// Exporter 工作簿导出器
type Exporter struct {
	source       Source
	templatePath string
}

// NewExporter 创建导出器；templatePath 非空时在该模板基础上写入
func NewExporter(source Source, templatePath string) *Exporter {
	return &Exporter{
		source:       source,
		templatePath: templatePath,
	}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Year     string
	Progress func(ProgressEvent)
}

// Export 导出指定年份，每个数据集一个工作表，调用方负责关闭返回的文件
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	if !model.ValidYear(opts.Year) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidYear, opts.Year)
	}

	f, err := e.openWorkbook()
	if err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	reportProgress(opts.Progress, 0, "开始导出")
	for i, kind := range model.Kinds {
		records, err := e.source.GetView(kind, opts.Year)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeDataset(f, kind, records, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s sheet: %w", kind, err)
		}
		reportProgress(opts.Progress, (i+1)*90/len(model.Kinds), SheetTitles[kind])
	}

	if err := writeSummary(f, e.source.GetStats(opts.Year), headerStyle); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write summary sheet: %w", err)
	}

	if idx, err := f.GetSheetIndex(SheetTitles[model.Kinds[0]]); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	reportProgress(opts.Progress, 100, "导出完成")
	return f, nil
}

// FileName 导出文件名
func FileName(year string) string {
	return fmt.Sprintf("oceanland_dashboard_%s.xlsx", year)
}

func (e *Exporter) openWorkbook() (*excelize.File, error) {
	if p := strings.TrimSpace(e.templatePath); p != "" {
		f, err := excelize.OpenFile(p)
		if err != nil {
			return nil, fmt.Errorf("打开导出模板失败: %w", err)
		}
		return f, nil
	}
	return excelize.NewFile(), nil
}

// resetSheet 清空或创建工作表；新建工作簿的默认 Sheet1 被复用
func resetSheet(f *excelize.File, name string) error {
	if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	sheets := f.GetSheetList()
	if len(sheets) == 1 && sheets[0] == "Sheet1" {
		return f.SetSheetName("Sheet1", name)
	}
	_, err := f.NewSheet(name)
	return err
}

func writeDataset(f *excelize.File, kind model.Kind, records []model.Record, headerStyle int) error {
	schema, ok := parser.Schemas[kind]
	if !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownKind, kind)
	}
	sheet := SheetTitles[kind]
	if err := resetSheet(f, sheet); err != nil {
		return err
	}

	header := make([]any, 0, len(schema.Fields))
	for _, fd := range schema.Fields {
		header = append(header, fd.Aliases[0])
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, rec := range records {
		row := make([]any, 0, len(schema.Fields))
		for _, fd := range schema.Fields {
			v, _ := rec.Get(fd.Field)
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

func writeSummary(f *excelize.File, stats model.SummaryStats, headerStyle int) error {
	if err := resetSheet(f, SummarySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"key", "value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	for i, key := range model.StatKeys {
		v, _ := stats.Get(key)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &[]any{key, v}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 30)
}
