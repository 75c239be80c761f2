package model

// Indicators 年度仪表盘派生指标
type Indicators struct {
	Year string `json:"year"`

	// 营收
	TotalRevenue       int     `json:"totalRevenue"`
	TotalTarget        int     `json:"totalTarget"`
	TotalExpense       int     `json:"totalExpense"`
	RevenueAchievement float64 `json:"revenueAchievement"` // 营收 / 目标 × 100
	NetProfit          int     `json:"netProfit"`

	// 运营
	AvgKPIProgress    float64 `json:"avgKpiProgress"`
	BudgetUtilisation float64 `json:"budgetUtilisation"` // 实际 / 预算 × 100
	PipelineValue     int     `json:"pipelineValue"`
	PipelineDeals     int     `json:"pipelineDeals"`

	// 财务
	AvgProfitMargin float64 `json:"avgProfitMargin"`
	NetCashFlow     int     `json:"netCashFlow"`
	AvgARTurnover   float64 `json:"avgArTurnover"`
	AvgGrowthRate   float64 `json:"avgGrowthRate"`
}
