package parser

import (
	"strings"

	"github.com/belajarexportimport-sudo/Oceanland/internal/coerce"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

// RawRow 原始行：列名 -> 单元格值
// CSV 解析出的列名已小写；工作簿保留原始大小写，由 Lookup 在读取时容忍大小写差异
type RawRow map[string]any

// Lookup 按别名顺序查找第一个非空值
// 先精确匹配各别名，再做去空白、忽略大小写的匹配
func (r RawRow) Lookup(aliases ...string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := r[alias]; ok && !coerce.IsBlank(v) {
			return v, true
		}
	}
	for _, alias := range aliases {
		want := foldHeader(alias)
		for k, v := range r {
			if foldHeader(k) == want && !coerce.IsBlank(v) {
				return v, true
			}
		}
	}
	return nil, false
}

// Sheet 一个工作表（或一个 CSV 文件）的解析结果
type Sheet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"-"`
}

// Workbook 解析后的工作簿，Sheets 保持源文件顺序
type Workbook struct {
	Format Format  `json:"format"`
	Sheets []Sheet `json:"sheets"`
}

// SheetNames 返回全部工作表名
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// SheetRecognitionResult Sheet 识别结果
type SheetRecognitionResult struct {
	SheetName string     `json:"sheetName"`
	Kind      model.Kind `json:"kind"`
	Alias     string     `json:"alias,omitempty"` // 命中的名称关键字
}

// Recognized 是否识别为已知数据集
func (r SheetRecognitionResult) Recognized() bool {
	return r.Kind != model.KindUnknown
}

func foldHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
