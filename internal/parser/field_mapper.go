package parser

import (
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

// FieldSpec 记录字段与可接受的表头别名
// 别名按顺序尝试，匹配时忽略大小写与首尾空白；Default 仅用于文本字段
type FieldSpec struct {
	Field   string   `json:"field"`
	Aliases []string `json:"aliases"`
	Default string   `json:"default,omitempty"`
}

// Schema 数据集的表头映射定义
type Schema struct {
	Kind   model.Kind  `json:"kind"`
	Fields []FieldSpec `json:"fields"`
	// fixed 映射完成后强制写入的字段（表格中不携带）
	fixed func(model.Record)
}

// Schemas 各数据集表头映射
var Schemas = map[model.Kind]Schema{
	model.KindRevenue: {Kind: model.KindRevenue, Fields: []FieldSpec{
		{Field: "month", Aliases: []string{"month", "Month", "bulan"}, Default: "Jan"},
		{Field: "revenue", Aliases: []string{"revenue", "Revenue", "pendapatan"}},
		{Field: "target", Aliases: []string{"target", "Target"}},
		{Field: "expense", Aliases: []string{"expense", "Expense", "biaya"}},
	}},
	model.KindKPI: {Kind: model.KindKPI, Fields: []FieldSpec{
		{Field: "division", Aliases: []string{"division", "Division", "divisi"}, Default: "Unknown"},
		{Field: "progress", Aliases: []string{"progress", "Progress"}},
		{Field: "actual", Aliases: []string{"actual", "Actual", "aktual"}},
	}, fixed: func(r model.Record) { _ = r.Set("target", 100) }},
	model.KindBudget: {Kind: model.KindBudget, Fields: []FieldSpec{
		{Field: "category", Aliases: []string{"category", "Category", "kategori"}, Default: "Other"},
		{Field: "budget", Aliases: []string{"budget", "Budget", "anggaran"}},
		{Field: "actual", Aliases: []string{"actual", "Actual", "realisasi"}},
	}},
	model.KindPipeline: {Kind: model.KindPipeline, Fields: []FieldSpec{
		{Field: "stage", Aliases: []string{"stage", "Stage", "tahap"}, Default: "Unknown"},
		{Field: "value", Aliases: []string{"value", "Value", "nilai"}},
		{Field: "count", Aliases: []string{"count", "Count", "jumlah"}},
	}},
	model.KindProductSales: {Kind: model.KindProductSales, Fields: []FieldSpec{
		{Field: "name", Aliases: []string{"name", "Name", "product", "produk"}, Default: "Other"},
		{Field: "value", Aliases: []string{"value", "Value", "nilai"}},
	}},
	model.KindGrowthRate: {Kind: model.KindGrowthRate, Fields: []FieldSpec{
		{Field: "period", Aliases: []string{"period", "Period", "quarter", "periode"}, Default: "Q1"},
		{Field: "rate", Aliases: []string{"rate", "Rate", "growth"}},
	}},
	model.KindProfitMargin: {Kind: model.KindProfitMargin, Fields: []FieldSpec{
		{Field: "month", Aliases: []string{"month", "Month", "bulan"}, Default: "Jan"},
		{Field: "margin", Aliases: []string{"margin", "Margin"}},
	}},
	model.KindCashFlow: {Kind: model.KindCashFlow, Fields: []FieldSpec{
		{Field: "month", Aliases: []string{"month", "Month", "bulan"}, Default: "Jan"},
		{Field: "inflow", Aliases: []string{"inflow", "Inflow", "kas masuk"}},
		{Field: "outflow", Aliases: []string{"outflow", "Outflow", "kas keluar"}},
	}},
	model.KindMarketShare: {Kind: model.KindMarketShare, Fields: []FieldSpec{
		{Field: "name", Aliases: []string{"name", "Name", "company", "perusahaan"}, Default: "Other"},
		{Field: "value", Aliases: []string{"value", "Value", "share"}},
	}},
	model.KindSegmentation: {Kind: model.KindSegmentation, Fields: []FieldSpec{
		{Field: "segment", Aliases: []string{"segment", "Segment", "segmen"}, Default: "Other"},
		{Field: "value", Aliases: []string{"value", "Value", "nilai"}},
	}},
	model.KindARTurnover: {Kind: model.KindARTurnover, Fields: []FieldSpec{
		{Field: "month", Aliases: []string{"month", "Month", "bulan"}, Default: "Jan"},
		{Field: "ratio", Aliases: []string{"ratio", "Ratio", "rasio"}},
	}},
}

// Mapper 将原始行映射为记录，输出与输入一一对应且保持顺序
type Mapper func(rows []RawRow) []model.Record

// MapperFor 返回数据集对应的映射函数
func MapperFor(kind model.Kind) (Mapper, bool) {
	schema, ok := Schemas[kind]
	if !ok {
		return nil, false
	}
	return schema.Map, true
}

// Map 按表头别名映射每一行，缺失或无法解析的数值字段为 0，文本字段取默认值
func (s Schema) Map(rows []RawRow) []model.Record {
	out := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := model.NewRecord(s.Kind)
		if err != nil {
			continue
		}
		for _, f := range s.Fields {
			v, ok := row.Lookup(f.Aliases...)
			if !ok {
				v = f.Default
			}
			_ = rec.Set(f.Field, v)
		}
		if s.fixed != nil {
			s.fixed(rec)
		}
		out = append(out, rec)
	}
	return out
}

// MapRevenueData 映射营收数据
func MapRevenueData(rows []RawRow) []model.RevenueRecord {
	return model.FromRecords[model.RevenueRecord](Schemas[model.KindRevenue].Map(rows))
}

// MapKPIData 映射 KPI 数据（target 固定为 100）
func MapKPIData(rows []RawRow) []model.KPIRecord {
	return model.FromRecords[model.KPIRecord](Schemas[model.KindKPI].Map(rows))
}

// MapBudgetData 映射预算数据
func MapBudgetData(rows []RawRow) []model.BudgetRecord {
	return model.FromRecords[model.BudgetRecord](Schemas[model.KindBudget].Map(rows))
}

// MapPipelineData 映射销售漏斗数据
func MapPipelineData(rows []RawRow) []model.PipelineRecord {
	return model.FromRecords[model.PipelineRecord](Schemas[model.KindPipeline].Map(rows))
}

// MapProductSalesData 映射产品销售占比
func MapProductSalesData(rows []RawRow) []model.ProductSalesRecord {
	return model.FromRecords[model.ProductSalesRecord](Schemas[model.KindProductSales].Map(rows))
}

// MapGrowthRateData 映射增长率
func MapGrowthRateData(rows []RawRow) []model.GrowthRateRecord {
	return model.FromRecords[model.GrowthRateRecord](Schemas[model.KindGrowthRate].Map(rows))
}

// MapProfitMarginData 映射利润率
func MapProfitMarginData(rows []RawRow) []model.ProfitMarginRecord {
	return model.FromRecords[model.ProfitMarginRecord](Schemas[model.KindProfitMargin].Map(rows))
}

// MapCashFlowData 映射现金流
func MapCashFlowData(rows []RawRow) []model.CashFlowRecord {
	return model.FromRecords[model.CashFlowRecord](Schemas[model.KindCashFlow].Map(rows))
}

// MapMarketShareData 映射市场份额
func MapMarketShareData(rows []RawRow) []model.MarketShareRecord {
	return model.FromRecords[model.MarketShareRecord](Schemas[model.KindMarketShare].Map(rows))
}

// MapSegmentationData 映射客户细分
func MapSegmentationData(rows []RawRow) []model.SegmentationRecord {
	return model.FromRecords[model.SegmentationRecord](Schemas[model.KindSegmentation].Map(rows))
}

// MapARTurnoverData 映射应收账款周转率
func MapARTurnoverData(rows []RawRow) []model.ARTurnoverRecord {
	return model.FromRecords[model.ARTurnoverRecord](Schemas[model.KindARTurnover].Map(rows))
}
