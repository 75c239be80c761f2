package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("inventory")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.False(t, KindUnknown.Valid())
}

func TestValidYear(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidYear("2024"))
	assert.False(t, ValidYear("24"))
	assert.False(t, ValidYear("2024a"))
	assert.False(t, ValidYear(""))
}

func TestRecordSetCoercesValues(t *testing.T) {
	t.Parallel()

	r := &RevenueRecord{Month: "Jan", Year: "2024"}
	require.NoError(t, r.Set("revenue", "4500.9"))
	require.NoError(t, r.Set("month", " Feb "))
	assert.Equal(t, 4500, r.Revenue)
	assert.Equal(t, "Feb", r.Month)

	assert.ErrorIs(t, r.Set("year", "2023"), ErrUnknownField)
	assert.ErrorIs(t, r.Set("profit", 1), ErrUnknownField)
	assert.Equal(t, "2024", r.Year)

	v, ok := r.Get("revenue")
	require.True(t, ok)
	assert.Equal(t, 4500, v)
	_, ok = r.Get("year")
	assert.False(t, ok)
}

func TestKPISetClampsProgress(t *testing.T) {
	t.Parallel()

	r := &KPIRecord{Division: "Sales", Target: 100}
	require.NoError(t, r.Set("progress", 150))
	assert.Equal(t, 100, r.Progress)
	require.NoError(t, r.Set("progress", "-3"))
	assert.Equal(t, 0, r.Progress)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := &ARTurnoverRecord{Month: "Jan", Ratio: 6.2, Year: "2024"}
	c := orig.Clone()
	require.NoError(t, c.Set("ratio", 1.5))
	assert.InDelta(t, 6.2, orig.Ratio, 1e-9)
}

func TestNewRecordCoversAllKinds(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		r, err := NewRecord(k)
		require.NoError(t, err, k)
		r.SetYear("2030")
		assert.Equal(t, "2030", r.RecordYear())
	}
	_, err := NewRecord(KindUnknown)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStatsSetAndFromMap(t *testing.T) {
	t.Parallel()

	s := DefaultStats
	require.NoError(t, s.Set("totalLeads", "2000"))
	require.NoError(t, s.Set("bestEmployee", "Andi"))
	assert.Equal(t, 2000, s.TotalLeads)
	assert.Equal(t, "Andi", s.BestEmployee)
	assert.ErrorIs(t, s.Set("nope", 1), ErrUnknownField)

	got := StatsFromMap(map[string]any{"margin": "41.5", "bestDivision": "Tender", "extra": true})
	assert.InDelta(t, 41.5, got.Margin, 1e-9)
	assert.Equal(t, "Tender", got.BestDivision)
	assert.Equal(t, 0, got.TotalLeads)
}

func TestSeedSnapshot(t *testing.T) {
	t.Parallel()

	s := SeedSnapshot()
	assert.Len(t, s.Revenue, 24)
	assert.Len(t, s.KPI, len(Divisions))
	assert.Equal(t, 950, s.Stats["2023"].TotalLeads)
	assert.Equal(t, 1248, s.Stats["2024"].TotalLeads)
	for _, k := range s.KPI {
		assert.Equal(t, 100, k.Target)
		assert.Equal(t, "2024", k.Year)
	}
	for _, k := range Kinds {
		assert.NotEmpty(t, s.Records(k), k)
	}
}

func TestSnapshotJSONKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(SeedSnapshot())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"allKpiData", "allRevenueData", "allBudgetData", "allProductSales", "allGrowthRate",
		"allStats", "allProfitMarginData", "allCashFlowData", "allMarketShareData",
		"allSegmentationData", "allArTurnoverData", "allPipelineData",
	} {
		assert.Contains(t, raw, key)
	}
}

func TestSnapshotNormalizeFillsMissing(t *testing.T) {
	t.Parallel()

	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"allRevenueData":[{"month":"Jan","revenue":1,"year":"2024"}]}`), &s))
	s.Normalize()
	assert.Len(t, s.Revenue, 1)
	assert.NotNil(t, s.Budget)
	assert.NotNil(t, s.Stats)
	assert.NotNil(t, s.Inquiries)
}

func TestSetRecordsRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewSnapshot()
	s.SetRecords(KindCashFlow, ZeroYear(KindCashFlow, "2025"))
	assert.Len(t, s.CashFlow, 6)
	back := s.Records(KindCashFlow)
	require.Len(t, back, 6)
	assert.Equal(t, "2025", back[0].RecordYear())
}

func TestZeroYearShapes(t *testing.T) {
	t.Parallel()

	assert.Len(t, ZeroYear(KindRevenue, "2025"), 12)
	assert.Len(t, ZeroYear(KindKPI, "2025"), 11)
	assert.Len(t, ZeroYear(KindGrowthRate, "2025"), 4)
	assert.Len(t, ZeroYear(KindProfitMargin, "2025"), 6)
	assert.Len(t, ZeroYear(KindARTurnover, "2025"), 6)

	kpi := ZeroYear(KindKPI, "2025")[0].(*KPIRecord)
	assert.Equal(t, 100, kpi.Target)
	assert.Equal(t, 0, kpi.Progress)

	z := ZeroStats()
	assert.Equal(t, 0, z.TotalLeads)
	assert.Equal(t, DefaultStats.BestEmployee, z.BestEmployee)
}

func TestFromRecordsSkipsForeignTypes(t *testing.T) {
	t.Parallel()

	mixed := []Record{&BudgetRecord{Category: "A"}, &RevenueRecord{Month: "Jan"}}
	got := FromRecords[BudgetRecord](mixed)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Category)
}
