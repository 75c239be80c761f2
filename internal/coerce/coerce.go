package coerce

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	intPrefix     = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// Int 将任意单元格值转换为整数
// 解析规则与前端 parseInt 一致：取前导整数部分，小数截断；无法解析时返回 0
func Int(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return truncate(float64(v))
	case float64:
		return truncate(v)
	case json.Number:
		return Int(v.String())
	case string:
		s := ungroup(strings.TrimSpace(v))
		m := intPrefix.FindString(s)
		if m == "" {
			return 0
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float 将任意单元格值转换为浮点数，NaN/Inf 与无法解析的值均返回 0
func Float(value any) float64 {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		return Float(v.String())
	case string:
		s := ungroup(strings.TrimSpace(v))
		m := floatPrefix.FindString(s)
		if m == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// String 将单元格值转换为去除首尾空白的字符串，nil 返回空串
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return String(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(toString(v))
	}
}

// IsBlank 判断单元格是否为空（nil 或纯空白字符串）
func IsBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int(math.Trunc(f))
}

// ungroup 去除千分位分隔符（仅当整体符合 1,234,567.89 格式时）
func ungroup(s string) string {
	if groupedNumber.MatchString(s) {
		return strings.ReplaceAll(s, ",", "")
	}
	return s
}

func toString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}
