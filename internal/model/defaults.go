package model

// DefaultYear 首次启动时的默认年份
const DefaultYear = "2024"

// Months 月份缩写
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Quarters 季度
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// Divisions 公司部门（固定 11 个）
var Divisions = []string{
	"Sales",
	"Business Development & Marketing",
	"Technical Support",
	"Technical Service",
	"Finance Accounting & Tax",
	"Supply Chain & Pricing",
	"Warehouse",
	"Tender",
	"Human Resources & General Affair",
	"Project Operation",
	"Sales Service",
}

// DefaultStats 汇总指标默认值
var DefaultStats = SummaryStats{
	TotalLeads:                   1248,
	TotalExpense:                 48500,
	TotalProfit:                  32400,
	Margin:                       40.2,
	CustomerSatisfaction:         4.8,
	ConversionRate:               24.5,
	TotalInventoryAssets:         1500000,
	TotalDemoAssets:              450000,
	TotalOperationalOfficeAssets: 850000,
	BestEmployee:                 "Budi Santoso",
	BestDivision:                 "Sales",
	BestAttendance:               "Siti Aminah",
}

var seedRevenue = map[string][][3]int{
	"2024": {
		{4500, 4000, 3200}, {5200, 4200, 3400}, {4800, 4500, 3100}, {6100, 4800, 3800},
		{5900, 5000, 3600}, {6800, 5500, 4100}, {7200, 6000, 4300}, {7100, 6200, 4200},
		{8500, 6500, 4800}, {8200, 7000, 4600}, {9400, 7500, 5200}, {10500, 8000, 5800},
	},
	"2023": {
		{3500, 3800, 2800}, {4200, 4000, 3000}, {3800, 4200, 2900}, {5100, 4500, 3400},
		{4900, 4600, 3200}, {5800, 5000, 3700}, {6200, 5500, 3900}, {6100, 5800, 3800},
		{7500, 6000, 4400}, {7200, 6500, 4200}, {8400, 7000, 4800}, {9500, 7500, 5300},
	},
}

var seedKPI = [][2]int{
	{92, 88}, {78, 81}, {85, 90}, {73, 76}, {95, 97}, {68, 72},
	{88, 85}, {64, 70}, {81, 83}, {76, 79}, {90, 94},
}

var seedBudget = []BudgetRecord{
	{Category: "Operational", Budget: 50000, Actual: 48500},
	{Category: "Marketing", Budget: 25000, Actual: 28000},
	{Category: "Development", Budget: 40000, Actual: 35000},
	{Category: "HR & GA", Budget: 15000, Actual: 14200},
	{Category: "Project Op", Budget: 60000, Actual: 58000},
}

var seedPipeline = []PipelineRecord{
	{Stage: "Prospecting", Value: 1200000, Count: 45},
	{Stage: "Qualification", Value: 850000, Count: 32},
	{Stage: "Proposal", Value: 600000, Count: 18},
	{Stage: "Negotiation", Value: 450000, Count: 12},
	{Stage: "Closed Won", Value: 300000, Count: 8},
}

var seedProductSales = []ProductSalesRecord{
	{Name: "Spare Parts", Value: 35},
	{Name: "Maintenance Service", Value: 25},
	{Name: "New Equipment", Value: 20},
	{Name: "Consultation", Value: 15},
	{Name: "Others", Value: 5},
}

var seedGrowthRate = []float64{12.5, 15.2, 18.7, 22.1}

var seedProfitMargin = []float64{32.5, 35.1, 33.8, 38.2, 36.9, 40.2}

var seedCashFlow = [][2]int{
	{5200, 3900}, {5800, 4100}, {5100, 4300}, {6600, 4500}, {6300, 4400}, {7400, 4800},
}

var seedMarketShare = []MarketShareRecord{
	{Name: "Oceanland", Value: 35},
	{Name: "Competitor A", Value: 25},
	{Name: "Competitor B", Value: 20},
	{Name: "Competitor C", Value: 12},
	{Name: "Others", Value: 8},
}

var seedSegmentation = []SegmentationRecord{
	{Segment: "Mining", Value: 30},
	{Segment: "Oil & Gas", Value: 25},
	{Segment: "Construction", Value: 20},
	{Segment: "Manufacturing", Value: 15},
	{Segment: "Government", Value: 10},
}

var seedARTurnover = []float64{6.2, 5.8, 6.5, 7.1, 6.9, 7.4}

// SeedSnapshot 首次运行时的初始数据
// 所有数据集均有 2024 年数据，营收额外包含 2023 年；汇总指标包含 2024 与 2023
func SeedSnapshot() *Snapshot {
	s := NewSnapshot()
	for _, year := range []string{"2024", "2023"} {
		for i, v := range seedRevenue[year] {
			s.Revenue = append(s.Revenue, RevenueRecord{Month: Months[i], Revenue: v[0], Target: v[1], Expense: v[2], Year: year})
		}
	}

	y := DefaultYear
	for i, div := range Divisions {
		s.KPI = append(s.KPI, KPIRecord{Division: div, Progress: seedKPI[i][0], Target: 100, Actual: seedKPI[i][1], Year: y})
	}
	for _, b := range seedBudget {
		b.Year = y
		s.Budget = append(s.Budget, b)
	}
	for _, p := range seedPipeline {
		p.Year = y
		s.Pipeline = append(s.Pipeline, p)
	}
	for _, p := range seedProductSales {
		p.Year = y
		s.ProductSales = append(s.ProductSales, p)
	}
	for i, rate := range seedGrowthRate {
		s.GrowthRate = append(s.GrowthRate, GrowthRateRecord{Period: Quarters[i], Rate: rate, Year: y})
	}
	for i, m := range seedProfitMargin {
		s.ProfitMargin = append(s.ProfitMargin, ProfitMarginRecord{Month: Months[i], Margin: m, Year: y})
	}
	for i, cf := range seedCashFlow {
		s.CashFlow = append(s.CashFlow, CashFlowRecord{Month: Months[i], Inflow: cf[0], Outflow: cf[1], Year: y})
	}
	for _, m := range seedMarketShare {
		m.Year = y
		s.MarketShare = append(s.MarketShare, m)
	}
	for _, seg := range seedSegmentation {
		seg.Year = y
		s.Segmentation = append(s.Segmentation, seg)
	}
	for i, r := range seedARTurnover {
		s.ARTurnover = append(s.ARTurnover, ARTurnoverRecord{Month: Months[i], Ratio: r, Year: y})
	}

	s.Stats["2024"] = DefaultStats
	prev := DefaultStats
	prev.TotalLeads = 950
	s.Stats["2023"] = prev
	s.SelectedYear = y
	return s
}

// ZeroYear 返回某数据集在新年份的零值初始记录
// 营收 12 个月，KPI 每部门一行（target=100），利润率/现金流/周转率取前 6 个月
func ZeroYear(kind Kind, year string) []Record {
	var out []Record
	switch kind {
	case KindRevenue:
		for _, m := range Months {
			out = append(out, &RevenueRecord{Month: m, Year: year})
		}
	case KindKPI:
		for _, div := range Divisions {
			out = append(out, &KPIRecord{Division: div, Target: 100, Year: year})
		}
	case KindBudget:
		for _, b := range seedBudget {
			out = append(out, &BudgetRecord{Category: b.Category, Year: year})
		}
	case KindPipeline:
		for _, p := range seedPipeline {
			out = append(out, &PipelineRecord{Stage: p.Stage, Year: year})
		}
	case KindProductSales:
		for _, p := range seedProductSales {
			out = append(out, &ProductSalesRecord{Name: p.Name, Year: year})
		}
	case KindGrowthRate:
		for _, q := range Quarters {
			out = append(out, &GrowthRateRecord{Period: q, Year: year})
		}
	case KindProfitMargin:
		for _, m := range Months[:6] {
			out = append(out, &ProfitMarginRecord{Month: m, Year: year})
		}
	case KindCashFlow:
		for _, m := range Months[:6] {
			out = append(out, &CashFlowRecord{Month: m, Year: year})
		}
	case KindMarketShare:
		for _, m := range seedMarketShare {
			out = append(out, &MarketShareRecord{Name: m.Name, Year: year})
		}
	case KindSegmentation:
		for _, seg := range seedSegmentation {
			out = append(out, &SegmentationRecord{Segment: seg.Segment, Year: year})
		}
	case KindARTurnover:
		for _, m := range Months[:6] {
			out = append(out, &ARTurnoverRecord{Month: m, Year: year})
		}
	}
	return out
}

// ZeroStats 新年份的汇总指标：沿用默认值，线索/支出/利润/利润率清零
func ZeroStats() SummaryStats {
	s := DefaultStats
	s.TotalLeads = 0
	s.TotalExpense = 0
	s.TotalProfit = 0
	s.Margin = 0
	return s
}
