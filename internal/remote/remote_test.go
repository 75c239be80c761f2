package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/store"
)

const remoteBody = `{
  "kpi": [{"division": "Sales", "progress": 150, "actual": 75}, "junk"],
  "revenue": [{"month": "Jan", "revenue": 4500, "target": 4000, "expense": "3,200"}],
  "budget": [],
  "stats": {"totalLeads": 77, "bestEmployee": "Rina"},
  "inquiries": [{"name": "PT Maju", "status": "new"}]
}`

type countingSaver struct{ n atomic.Int32 }

func (c *countingSaver) ScheduleSave() { c.n.Add(1) }

func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var query atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.RawQuery)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &query
}

func seededStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.Restore(model.SeedSnapshot())
	return s
}

func TestDecodePayload_Defaults(t *testing.T) {
	p, err := DecodePayload([]byte(`{"kpi": {"not": "array"}, "stats": []}`))
	require.NoError(t, err)
	assert.Empty(t, p.KPI)
	assert.NotNil(t, p.Revenue)
	assert.Empty(t, p.Stats)
	assert.NotNil(t, p.Inquiries)

	_, err = DecodePayload([]byte(`[1,2]`))
	assert.Error(t, err)
	_, err = DecodePayload([]byte(`{broken`))
	assert.Error(t, err)
}

func TestHTTPFetcher_AddsAction(t *testing.T) {
	srv, query := newServer(t, http.StatusOK, remoteBody)

	f, err := NewHTTPFetcher(srv.URL+"/exec", time.Second)
	require.NoError(t, err)
	p, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "action=fetch_dashboard_data", query.Load())
	assert.Len(t, p.KPI, 1)
	assert.Equal(t, "PT Maju", p.Inquiries[0]["name"])
}

func TestHTTPFetcher_Errors(t *testing.T) {
	_, err := NewHTTPFetcher("not a url", time.Second)
	assert.Error(t, err)

	srv, _ := newServer(t, http.StatusInternalServerError, "oops")
	f, err := NewHTTPFetcher(srv.URL, time.Second)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background())
	assert.Error(t, err)
}

func TestSyncer_Sync(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, remoteBody)
	f, err := NewHTTPFetcher(srv.URL, time.Second)
	require.NoError(t, err)

	st := seededStore()
	budgetBefore, _ := st.GetView(model.KindBudget, "2024")
	saver := &countingSaver{}
	s := NewSyncer(f, st, WithSaver(saver))

	res, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024", res.Year)
	assert.Equal(t, []model.Kind{model.KindKPI, model.KindRevenue}, res.UpdatedKinds)
	assert.True(t, res.StatsUpdated)
	assert.Equal(t, 1, res.Inquiries)

	kpi, _ := st.GetView(model.KindKPI, "2024")
	require.Len(t, kpi, 1)
	assert.Equal(t, &model.KPIRecord{Division: "Sales", Progress: 100, Target: 100, Actual: 75, Year: "2024"}, kpi[0])

	rev, _ := st.GetView(model.KindRevenue, "2024")
	require.Len(t, rev, 1)
	assert.Equal(t, 3200, rev[0].(*model.RevenueRecord).Expense)

	budgetAfter, _ := st.GetView(model.KindBudget, "2024")
	assert.Equal(t, budgetBefore, budgetAfter)

	stats := st.GetStats("2024")
	assert.Equal(t, 77, stats.TotalLeads)
	assert.Equal(t, "Rina", stats.BestEmployee)

	assert.Len(t, st.Inquiries(), 1)
	assert.False(t, st.LastRemoteUpdate().IsZero())
	assert.EqualValues(t, 1, saver.n.Load())
}

type fetcherFunc func(ctx context.Context) (*Payload, error)

func (f fetcherFunc) Fetch(ctx context.Context) (*Payload, error) { return f(ctx) }

func TestSyncer_FailureLeavesStore(t *testing.T) {
	st := seededStore()
	before := st.Snapshot()
	s := NewSyncer(fetcherFunc(func(context.Context) (*Payload, error) {
		return nil, errors.New("network down")
	}), st)

	_, err := s.Sync(context.Background())
	assert.Error(t, err)
	assert.Equal(t, before, st.Snapshot())
	assert.True(t, st.LastRemoteUpdate().IsZero())
}

func TestSyncer_ConfiguredYear(t *testing.T) {
	st := seededStore()
	s := NewSyncer(fetcherFunc(func(context.Context) (*Payload, error) {
		return DecodePayload([]byte(`{"pipeline": [{"stage": "Lead", "value": 10, "count": 2}]}`))
	}), st, WithYear("2023"))

	res, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, res.StatsUpdated)

	pipe, _ := st.GetView(model.KindPipeline, "2023")
	require.Len(t, pipe, 1)
	assert.Equal(t, "Lead", pipe[0].(*model.PipelineRecord).Stage)
}

func TestSyncer_RefreshThrottled(t *testing.T) {
	var calls atomic.Int32
	s := NewSyncer(fetcherFunc(func(context.Context) (*Payload, error) {
		calls.Add(1)
		return DecodePayload([]byte(`{}`))
	}), seededStore(), WithMinInterval(time.Hour))

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)
	_, err = s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrThrottled)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSyncer_TimeoutApplied(t *testing.T) {
	s := NewSyncer(fetcherFunc(func(ctx context.Context) (*Payload, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), seededStore(), WithTimeout(20*time.Millisecond))

	_, err := s.Sync(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSyncer_RunStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	s := NewSyncer(fetcherFunc(func(context.Context) (*Payload, error) {
		calls.Add(1)
		return nil, errors.New("offline")
	}), seededStore())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
