// Package calculator 年度仪表盘派生指标计算
package calculator

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

// Source 指标计算的数据来源
type Source interface {
	GetView(kind model.Kind, year string) ([]model.Record, error)
}

// Engine 指标计算引擎
type Engine struct {
	source Source
}

// NewEngine 创建计算引擎
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Calculate 计算指定年份的所有指标；缺失的数据集按 0 计
func (e *Engine) Calculate(year string) (*model.Indicators, error) {
	if !model.ValidYear(year) {
		return nil, model.ErrInvalidYear
	}
	ind := &model.Indicators{Year: year}

	// 营收
	revenue := view[model.RevenueRecord](e, model.KindRevenue, year)
	ind.TotalRevenue = sumInt(revenue, func(r model.RevenueRecord) int { return r.Revenue })
	ind.TotalTarget = sumInt(revenue, func(r model.RevenueRecord) int { return r.Target })
	ind.TotalExpense = sumInt(revenue, func(r model.RevenueRecord) int { return r.Expense })
	ind.RevenueAchievement = percent(float64(ind.TotalRevenue), float64(ind.TotalTarget))
	ind.NetProfit = ind.TotalRevenue - ind.TotalExpense

	// 运营
	kpi := view[model.KPIRecord](e, model.KindKPI, year)
	ind.AvgKPIProgress = mean(collect(kpi, func(r model.KPIRecord) float64 { return float64(r.Progress) }))

	budget := view[model.BudgetRecord](e, model.KindBudget, year)
	ind.BudgetUtilisation = percent(
		float64(sumInt(budget, func(r model.BudgetRecord) int { return r.Actual })),
		float64(sumInt(budget, func(r model.BudgetRecord) int { return r.Budget })),
	)

	pipeline := view[model.PipelineRecord](e, model.KindPipeline, year)
	ind.PipelineValue = sumInt(pipeline, func(r model.PipelineRecord) int { return r.Value })
	ind.PipelineDeals = sumInt(pipeline, func(r model.PipelineRecord) int { return r.Count })

	// 财务
	margin := view[model.ProfitMarginRecord](e, model.KindProfitMargin, year)
	ind.AvgProfitMargin = mean(collect(margin, func(r model.ProfitMarginRecord) float64 { return r.Margin }))

	cash := view[model.CashFlowRecord](e, model.KindCashFlow, year)
	ind.NetCashFlow = sumInt(cash, func(r model.CashFlowRecord) int { return r.Inflow - r.Outflow })

	ar := view[model.ARTurnoverRecord](e, model.KindARTurnover, year)
	ind.AvgARTurnover = mean(collect(ar, func(r model.ARTurnoverRecord) float64 { return r.Ratio }))

	growth := view[model.GrowthRateRecord](e, model.KindGrowthRate, year)
	ind.AvgGrowthRate = mean(collect(growth, func(r model.GrowthRateRecord) float64 { return r.Rate }))

	return ind, nil
}

func view[T any, P interface {
	*T
	model.Record
}](e *Engine, kind model.Kind, year string) []T {
	records, err := e.source.GetView(kind, year)
	if err != nil {
		return nil
	}
	return model.FromRecords[T, P](records)
}

func collect[T any](items []T, f func(T) float64) []float64 {
	out := make([]float64, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}

func sumInt[T any](items []T, f func(T) int) int {
	total := 0
	for _, it := range items {
		total += f(it)
	}
	return total
}

// mean 平均值，空集合返回 0，保留两位小数
func mean(data []float64) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return round2(m)
}

// percent 计算百分比，分母为 0 时返回 0
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil || math.IsNaN(r) {
		return 0
	}
	return r
}
