package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Format 输入文件格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// IsWorkbook 是否为多工作表格式
func (f Format) IsWorkbook() bool {
	return f == FormatXLSX || f == FormatXLS
}

// DetectFormat 根据扩展名判断格式，无扩展名时根据文件头判断
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case "":
		switch {
		case bytes.HasPrefix(data, zipMagic):
			return FormatXLSX, nil
		case bytes.HasPrefix(data, cfbMagic):
			return FormatXLS, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// ParseWorkbook 解析工作簿全部工作表
// 每个工作表首行为表头（保留原始大小写），后续行按表头映射；空单元格不写入行，整行为空时跳过
func ParseWorkbook(ctx context.Context, name string, data []byte, format Format) (*Workbook, error) {
	var (
		wb  *Workbook
		err error
	)
	switch format {
	case FormatXLSX:
		wb, err = parseXLSX(ctx, data)
	case FormatXLS:
		wb, err = parseXLS(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %s is not a workbook format", ErrUnsupportedFormat, format)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ParseError{Format: format, Source: name, Err: err}
	}
	wb.Format = format
	return wb, nil
}

func parseXLSX(ctx context.Context, data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, buildSheet(name, rows))
	}
	return wb, nil
}

func parseXLS(ctx context.Context, data []byte) (wb *Workbook, err error) {
	defer func() {
		if r := recover(); r != nil {
			wb = nil
			err = fmt.Errorf("decode xls: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	wb = &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol()+1)
			for c := 0; c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		wb.Sheets = append(wb.Sheets, buildSheet(ws.Name, rows))
	}
	return wb, nil
}

// buildSheet 将二维单元格转换为表头 + 原始行
// 表头为空的列被忽略，重名表头追加 _1、_2 后缀
// 仅在无表头列有内容的行保留为空行，由映射器生成默认记录
func buildSheet(name string, rows [][]string) Sheet {
	sheet := Sheet{Name: name}
	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return sheet
	}

	seen := make(map[string]int)
	headers := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = h + "_" + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	sheet.Headers = headers

	for _, row := range rows[start+1:] {
		if blankRow(row) {
			continue
		}
		raw := make(RawRow, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			raw[h] = v
		}
		sheet.Rows = append(sheet.Rows, raw)
	}
	return sheet
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
