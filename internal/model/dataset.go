package model

import (
	"errors"
	"regexp"
)

// Kind 数据集类型
type Kind string

const (
	KindUnknown      Kind = ""
	KindRevenue      Kind = "revenue"
	KindKPI          Kind = "kpi"
	KindBudget       Kind = "budget"
	KindPipeline     Kind = "pipeline"
	KindProductSales Kind = "productSales"
	KindGrowthRate   Kind = "growthRate"
	KindProfitMargin Kind = "profitMargin"
	KindCashFlow     Kind = "cashFlow"
	KindMarketShare  Kind = "marketShare"
	KindSegmentation Kind = "segmentation"
	KindARTurnover   Kind = "arTurnover"
)

// Kinds 全部数据集类型（固定顺序）
var Kinds = []Kind{
	KindRevenue,
	KindKPI,
	KindBudget,
	KindPipeline,
	KindProductSales,
	KindGrowthRate,
	KindProfitMargin,
	KindCashFlow,
	KindMarketShare,
	KindSegmentation,
	KindARTurnover,
}

var (
	ErrUnknownKind  = errors.New("unknown dataset kind")
	ErrUnknownField = errors.New("unknown or read-only field")
	ErrInvalidYear  = errors.New("invalid year")
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ParseKind 解析数据集类型名称
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return KindUnknown, ErrUnknownKind
}

// Valid 是否为已知数据集类型
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// ValidYear 校验年份格式（四位数字）
func ValidYear(year string) bool {
	return yearPattern.MatchString(year)
}

// Record 数据集记录，每条记录携带年份标签
type Record interface {
	RecordYear() string
	SetYear(year string)
	// Get 按 JSON 字段名读取字段值
	Get(field string) (any, bool)
	// Set 按 JSON 字段名写入字段值（数值字段自动转换），year 不可通过 Set 修改
	Set(field string, value any) error
	Clone() Record
}

// NewRecord 创建指定类型的空记录
func NewRecord(kind Kind) (Record, error) {
	switch kind {
	case KindRevenue:
		return &RevenueRecord{}, nil
	case KindKPI:
		return &KPIRecord{}, nil
	case KindBudget:
		return &BudgetRecord{}, nil
	case KindPipeline:
		return &PipelineRecord{}, nil
	case KindProductSales:
		return &ProductSalesRecord{}, nil
	case KindGrowthRate:
		return &GrowthRateRecord{}, nil
	case KindProfitMargin:
		return &ProfitMarginRecord{}, nil
	case KindCashFlow:
		return &CashFlowRecord{}, nil
	case KindMarketShare:
		return &MarketShareRecord{}, nil
	case KindSegmentation:
		return &SegmentationRecord{}, nil
	case KindARTurnover:
		return &ARTurnoverRecord{}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// ToRecords 将具体类型切片转换为 Record 切片（逐条复制）
func ToRecords[T any, P interface {
	*T
	Record
}](items []T) []Record {
	out := make([]Record, 0, len(items))
	for i := range items {
		item := items[i]
		out = append(out, P(&item))
	}
	return out
}

// FromRecords 将 Record 切片还原为具体类型切片，类型不符的记录被忽略
func FromRecords[T any, P interface {
	*T
	Record
}](records []Record) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if p, ok := r.(P); ok && p != nil {
			out = append(out, *p)
		}
	}
	return out
}
