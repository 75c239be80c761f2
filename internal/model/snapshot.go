package model

import "time"

// StorageKey 持久化快照的固定键名
const StorageKey = "oseanland_dashboard_data"

// Inquiry 远程数据源返回的询盘记录，字段不固定
type Inquiry map[string]any

// Snapshot 仪表盘全部数据的可序列化快照
type Snapshot struct {
	KPI          []KPIRecord             `json:"allKpiData"`
	Revenue      []RevenueRecord         `json:"allRevenueData"`
	Budget       []BudgetRecord          `json:"allBudgetData"`
	Pipeline     []PipelineRecord        `json:"allPipelineData"`
	ProductSales []ProductSalesRecord    `json:"allProductSales"`
	GrowthRate   []GrowthRateRecord      `json:"allGrowthRate"`
	Stats        map[string]SummaryStats `json:"allStats"`
	ProfitMargin []ProfitMarginRecord    `json:"allProfitMarginData"`
	CashFlow     []CashFlowRecord        `json:"allCashFlowData"`
	MarketShare  []MarketShareRecord     `json:"allMarketShareData"`
	Segmentation []SegmentationRecord    `json:"allSegmentationData"`
	ARTurnover   []ARTurnoverRecord      `json:"allArTurnoverData"`
	Inquiries    []Inquiry               `json:"recentInquiries"`
	SelectedYear string                  `json:"selectedYear,omitempty"`
}

// NewSnapshot 创建空快照（所有集合非 nil）
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize 将缺失的集合补为空集合，旧版快照可能缺少部分键
func (s *Snapshot) Normalize() {
	for _, k := range Kinds {
		if s.Records(k) == nil {
			s.SetRecords(k, nil)
		}
	}
	if s.Stats == nil {
		s.Stats = make(map[string]SummaryStats)
	}
	if s.Inquiries == nil {
		s.Inquiries = []Inquiry{}
	}
}

// Records 返回指定类型的记录（副本），集合缺失时返回 nil
func (s *Snapshot) Records(kind Kind) []Record {
	switch kind {
	case KindRevenue:
		return nilOr(s.Revenue == nil, ToRecords(s.Revenue))
	case KindKPI:
		return nilOr(s.KPI == nil, ToRecords(s.KPI))
	case KindBudget:
		return nilOr(s.Budget == nil, ToRecords(s.Budget))
	case KindPipeline:
		return nilOr(s.Pipeline == nil, ToRecords(s.Pipeline))
	case KindProductSales:
		return nilOr(s.ProductSales == nil, ToRecords(s.ProductSales))
	case KindGrowthRate:
		return nilOr(s.GrowthRate == nil, ToRecords(s.GrowthRate))
	case KindProfitMargin:
		return nilOr(s.ProfitMargin == nil, ToRecords(s.ProfitMargin))
	case KindCashFlow:
		return nilOr(s.CashFlow == nil, ToRecords(s.CashFlow))
	case KindMarketShare:
		return nilOr(s.MarketShare == nil, ToRecords(s.MarketShare))
	case KindSegmentation:
		return nilOr(s.Segmentation == nil, ToRecords(s.Segmentation))
	case KindARTurnover:
		return nilOr(s.ARTurnover == nil, ToRecords(s.ARTurnover))
	default:
		return nil
	}
}

// SetRecords 用给定记录覆盖指定类型的集合，类型不符的记录被忽略
func (s *Snapshot) SetRecords(kind Kind, records []Record) {
	switch kind {
	case KindRevenue:
		s.Revenue = FromRecords[RevenueRecord](records)
	case KindKPI:
		s.KPI = FromRecords[KPIRecord](records)
	case KindBudget:
		s.Budget = FromRecords[BudgetRecord](records)
	case KindPipeline:
		s.Pipeline = FromRecords[PipelineRecord](records)
	case KindProductSales:
		s.ProductSales = FromRecords[ProductSalesRecord](records)
	case KindGrowthRate:
		s.GrowthRate = FromRecords[GrowthRateRecord](records)
	case KindProfitMargin:
		s.ProfitMargin = FromRecords[ProfitMarginRecord](records)
	case KindCashFlow:
		s.CashFlow = FromRecords[CashFlowRecord](records)
	case KindMarketShare:
		s.MarketShare = FromRecords[MarketShareRecord](records)
	case KindSegmentation:
		s.Segmentation = FromRecords[SegmentationRecord](records)
	case KindARTurnover:
		s.ARTurnover = FromRecords[ARTurnoverRecord](records)
	}
}

func nilOr(isNil bool, records []Record) []Record {
	if isNil {
		return nil
	}
	return records
}

// ImportLog 导入历史记录
type ImportLog struct {
	ImportedAt    time.Time `json:"importedAt"`
	FileName      string    `json:"fileName"`
	ImportedCount int       `json:"importedCount"`
	Kinds         []Kind    `json:"kinds"`
}
