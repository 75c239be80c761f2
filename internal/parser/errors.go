package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput 输入无法解析（扩展名不支持或内容损坏）
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnsupportedFormat 既不是 CSV 也不是工作簿
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format: %w", ErrMalformedInput)
)

// ParseError 解析器拒绝输入
type ParseError struct {
	Format Format
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse %s %q: %v", e.Format, e.Source, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrMalformedInput) 对所有解析错误成立
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}
