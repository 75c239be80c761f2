package model

import "github.com/belajarexportimport-sudo/Oceanland/internal/coerce"

// field 记录字段引用，三个指针中恰有一个非空
type field struct {
	s *string
	i *int
	f *float64
}

func (fd field) get() any {
	switch {
	case fd.s != nil:
		return *fd.s
	case fd.i != nil:
		return *fd.i
	default:
		return *fd.f
	}
}

func (fd field) set(v any) {
	switch {
	case fd.s != nil:
		*fd.s = coerce.String(v)
	case fd.i != nil:
		*fd.i = coerce.Int(v)
	default:
		*fd.f = coerce.Float(v)
	}
}

func getField(fields map[string]field, name string) (any, bool) {
	if name == "year" {
		return nil, false
	}
	fd, ok := fields[name]
	if !ok {
		return nil, false
	}
	return fd.get(), true
}

func setField(fields map[string]field, name string, v any) error {
	fd, ok := fields[name]
	if !ok {
		return ErrUnknownField
	}
	fd.set(v)
	return nil
}

// ClampProgress 将 KPI 进度限制在 0-100
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// RevenueRecord 月度营收
type RevenueRecord struct {
	Month   string `json:"month"`
	Revenue int    `json:"revenue"`
	Target  int    `json:"target"`
	Expense int    `json:"expense"`
	Year    string `json:"year"`
}

func (r *RevenueRecord) fields() map[string]field {
	return map[string]field{
		"month":   {s: &r.Month},
		"revenue": {i: &r.Revenue},
		"target":  {i: &r.Target},
		"expense": {i: &r.Expense},
	}
}

func (r *RevenueRecord) RecordYear() string           { return r.Year }
func (r *RevenueRecord) SetYear(year string)          { r.Year = year }
func (r *RevenueRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *RevenueRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *RevenueRecord) Clone() Record                { c := *r; return &c }

// KPIRecord 部门 KPI 进度
type KPIRecord struct {
	Division string `json:"division"`
	Progress int    `json:"progress"`
	Target   int    `json:"target"`
	Actual   int    `json:"actual"`
	Year     string `json:"year"`
}

func (r *KPIRecord) fields() map[string]field {
	return map[string]field{
		"division": {s: &r.Division},
		"progress": {i: &r.Progress},
		"target":   {i: &r.Target},
		"actual":   {i: &r.Actual},
	}
}

func (r *KPIRecord) RecordYear() string          { return r.Year }
func (r *KPIRecord) SetYear(year string)         { r.Year = year }
func (r *KPIRecord) Get(name string) (any, bool) { return getField(r.fields(), name) }
func (r *KPIRecord) Clone() Record               { c := *r; return &c }

// Set 写入字段，progress 限制在 0-100
func (r *KPIRecord) Set(name string, v any) error {
	if err := setField(r.fields(), name, v); err != nil {
		return err
	}
	r.Progress = ClampProgress(r.Progress)
	return nil
}

// BudgetRecord 预算与实际支出
type BudgetRecord struct {
	Category string `json:"category"`
	Budget   int    `json:"budget"`
	Actual   int    `json:"actual"`
	Year     string `json:"year"`
}

func (r *BudgetRecord) fields() map[string]field {
	return map[string]field{
		"category": {s: &r.Category},
		"budget":   {i: &r.Budget},
		"actual":   {i: &r.Actual},
	}
}

func (r *BudgetRecord) RecordYear() string           { return r.Year }
func (r *BudgetRecord) SetYear(year string)          { r.Year = year }
func (r *BudgetRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *BudgetRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *BudgetRecord) Clone() Record                { c := *r; return &c }

// PipelineRecord 销售漏斗阶段
type PipelineRecord struct {
	Stage string `json:"stage"`
	Value int    `json:"value"`
	Count int    `json:"count"`
	Year  string `json:"year"`
}

func (r *PipelineRecord) fields() map[string]field {
	return map[string]field{
		"stage": {s: &r.Stage},
		"value": {i: &r.Value},
		"count": {i: &r.Count},
	}
}

func (r *PipelineRecord) RecordYear() string           { return r.Year }
func (r *PipelineRecord) SetYear(year string)          { r.Year = year }
func (r *PipelineRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *PipelineRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *PipelineRecord) Clone() Record                { c := *r; return &c }

// ProductSalesRecord 产品销售占比
type ProductSalesRecord struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Year  string  `json:"year"`
}

func (r *ProductSalesRecord) fields() map[string]field {
	return map[string]field{
		"name":  {s: &r.Name},
		"value": {f: &r.Value},
	}
}

func (r *ProductSalesRecord) RecordYear() string           { return r.Year }
func (r *ProductSalesRecord) SetYear(year string)          { r.Year = year }
func (r *ProductSalesRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *ProductSalesRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *ProductSalesRecord) Clone() Record                { c := *r; return &c }

// GrowthRateRecord 季度增长率
type GrowthRateRecord struct {
	Period string  `json:"period"`
	Rate   float64 `json:"rate"`
	Year   string  `json:"year"`
}

func (r *GrowthRateRecord) fields() map[string]field {
	return map[string]field{
		"period": {s: &r.Period},
		"rate":   {f: &r.Rate},
	}
}

func (r *GrowthRateRecord) RecordYear() string           { return r.Year }
func (r *GrowthRateRecord) SetYear(year string)          { r.Year = year }
func (r *GrowthRateRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *GrowthRateRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *GrowthRateRecord) Clone() Record                { c := *r; return &c }

// ProfitMarginRecord 月度利润率
type ProfitMarginRecord struct {
	Month  string  `json:"month"`
	Margin float64 `json:"margin"`
	Year   string  `json:"year"`
}

func (r *ProfitMarginRecord) fields() map[string]field {
	return map[string]field{
		"month":  {s: &r.Month},
		"margin": {f: &r.Margin},
	}
}

func (r *ProfitMarginRecord) RecordYear() string           { return r.Year }
func (r *ProfitMarginRecord) SetYear(year string)          { r.Year = year }
func (r *ProfitMarginRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *ProfitMarginRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *ProfitMarginRecord) Clone() Record                { c := *r; return &c }

// CashFlowRecord 月度现金流
type CashFlowRecord struct {
	Month   string `json:"month"`
	Inflow  int    `json:"inflow"`
	Outflow int    `json:"outflow"`
	Year    string `json:"year"`
}

func (r *CashFlowRecord) fields() map[string]field {
	return map[string]field{
		"month":   {s: &r.Month},
		"inflow":  {i: &r.Inflow},
		"outflow": {i: &r.Outflow},
	}
}

func (r *CashFlowRecord) RecordYear() string           { return r.Year }
func (r *CashFlowRecord) SetYear(year string)          { r.Year = year }
func (r *CashFlowRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *CashFlowRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *CashFlowRecord) Clone() Record                { c := *r; return &c }

// MarketShareRecord 市场份额
type MarketShareRecord struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Year  string  `json:"year"`
}

func (r *MarketShareRecord) fields() map[string]field {
	return map[string]field{
		"name":  {s: &r.Name},
		"value": {f: &r.Value},
	}
}

func (r *MarketShareRecord) RecordYear() string           { return r.Year }
func (r *MarketShareRecord) SetYear(year string)          { r.Year = year }
func (r *MarketShareRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *MarketShareRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *MarketShareRecord) Clone() Record                { c := *r; return &c }

// SegmentationRecord 客户行业细分
type SegmentationRecord struct {
	Segment string  `json:"segment"`
	Value   float64 `json:"value"`
	Year    string  `json:"year"`
}

func (r *SegmentationRecord) fields() map[string]field {
	return map[string]field{
		"segment": {s: &r.Segment},
		"value":   {f: &r.Value},
	}
}

func (r *SegmentationRecord) RecordYear() string           { return r.Year }
func (r *SegmentationRecord) SetYear(year string)          { r.Year = year }
func (r *SegmentationRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *SegmentationRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *SegmentationRecord) Clone() Record                { c := *r; return &c }

// ARTurnoverRecord 应收账款周转率
type ARTurnoverRecord struct {
	Month string  `json:"month"`
	Ratio float64 `json:"ratio"`
	Year  string  `json:"year"`
}

func (r *ARTurnoverRecord) fields() map[string]field {
	return map[string]field{
		"month": {s: &r.Month},
		"ratio": {f: &r.Ratio},
	}
}

func (r *ARTurnoverRecord) RecordYear() string           { return r.Year }
func (r *ARTurnoverRecord) SetYear(year string)          { r.Year = year }
func (r *ARTurnoverRecord) Get(name string) (any, bool)  { return getField(r.fields(), name) }
func (r *ARTurnoverRecord) Set(name string, v any) error { return setField(r.fields(), name, v) }
func (r *ARTurnoverRecord) Clone() Record                { c := *r; return &c }
