package model

// SummaryStats 年度汇总指标卡片
type SummaryStats struct {
	TotalLeads                   int     `json:"totalLeads"`
	TotalExpense                 int     `json:"totalExpense"`
	TotalProfit                  int     `json:"totalProfit"`
	Margin                       float64 `json:"margin"`
	CustomerSatisfaction         float64 `json:"customerSatisfaction"`
	ConversionRate               float64 `json:"conversionRate"`
	TotalInventoryAssets         int     `json:"totalInventoryAssets"`
	TotalDemoAssets              int     `json:"totalDemoAssets"`
	TotalOperationalOfficeAssets int     `json:"totalOperationalOfficeAssets"`
	BestEmployee                 string  `json:"bestEmployee"`
	BestDivision                 string  `json:"bestDivision"`
	BestAttendance               string  `json:"bestAttendance"`
}

// StatKeys 汇总指标字段名（与 JSON 键一致）
var StatKeys = []string{
	"totalLeads",
	"totalExpense",
	"totalProfit",
	"margin",
	"customerSatisfaction",
	"conversionRate",
	"totalInventoryAssets",
	"totalDemoAssets",
	"totalOperationalOfficeAssets",
	"bestEmployee",
	"bestDivision",
	"bestAttendance",
}

func (s *SummaryStats) fields() map[string]field {
	return map[string]field{
		"totalLeads":                   {i: &s.TotalLeads},
		"totalExpense":                 {i: &s.TotalExpense},
		"totalProfit":                  {i: &s.TotalProfit},
		"margin":                       {f: &s.Margin},
		"customerSatisfaction":         {f: &s.CustomerSatisfaction},
		"conversionRate":               {f: &s.ConversionRate},
		"totalInventoryAssets":         {i: &s.TotalInventoryAssets},
		"totalDemoAssets":              {i: &s.TotalDemoAssets},
		"totalOperationalOfficeAssets": {i: &s.TotalOperationalOfficeAssets},
		"bestEmployee":                 {s: &s.BestEmployee},
		"bestDivision":                 {s: &s.BestDivision},
		"bestAttendance":               {s: &s.BestAttendance},
	}
}

// Get 按键读取指标
func (s *SummaryStats) Get(key string) (any, bool) {
	return getField(s.fields(), key)
}

// Set 按键写入指标，数值字段自动转换
func (s *SummaryStats) Set(key string, value any) error {
	return setField(s.fields(), key, value)
}

// StatsFromMap 从松散的键值对构建汇总指标，缺失键保持零值，未知键忽略
func StatsFromMap(m map[string]any) SummaryStats {
	var s SummaryStats
	fields := s.fields()
	for k, v := range m {
		if fd, ok := fields[k]; ok {
			fd.set(v)
		}
	}
	return s
}
