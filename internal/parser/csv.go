package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV 解析逗号分隔文本
// 首行为表头（去空白并小写），其余非空行按位置映射到表头；字段不足时缺失的列不出现在行中
// 未加引号的字段中出现的引号按普通字符保留
func ParseCSV(text string) (*Sheet, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Format: FormatCSV, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &ParseError{Format: FormatCSV, Err: err}
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	sheet := &Sheet{Headers: headers}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: FormatCSV, Err: err}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		row := make(RawRow, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(rec) {
				continue
			}
			row[h] = strings.TrimSpace(rec[i])
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// ParseCSVBytes 解码字节后解析 CSV
// 支持 UTF-8（含 BOM）、UTF-16（需 BOM），其余非 UTF-8 内容按 Windows-1252 解码
func ParseCSVBytes(name string, data []byte) (*Sheet, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, &ParseError{Format: FormatCSV, Source: name, Err: err}
	}
	sheet, err := ParseCSV(text)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = name
		}
		return nil, err
	}
	sheet.Name = name
	return sheet, nil
}

func decodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return string(data[len(utf8BOM):]), nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		dec := textunicode.UTF16(textunicode.LittleEndian, textunicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	default:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode windows-1252: %w", err)
		}
		return string(out), nil
	}
}
