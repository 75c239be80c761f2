package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

func newSQLite(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "data", "oceanland.db")
	st, err := New(context.Background(), DriverSQLite, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	st := newSQLite(t)
	ctx := context.Background()

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	snap := model.SeedSnapshot()
	snap.Inquiries = []model.Inquiry{{"customer": "PT Maju", "value": 1500.0}}
	require.NoError(t, st.Save(ctx, snap))

	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	// 覆盖写入
	snap.Revenue[0].Revenue = 1
	require.NoError(t, st.Save(ctx, snap))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Revenue[0].Revenue)

	require.NoError(t, st.Clear(ctx))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "sqlite", st.Name())
}

func TestStore_ImportHistory(t *testing.T) {
	t.Parallel()

	st := newSQLite(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, st.AppendImport(ctx, model.ImportLog{ImportedAt: base, FileName: "a.xlsx", ImportedCount: 2, Kinds: []model.Kind{model.KindRevenue, model.KindKPI}}))
	require.NoError(t, st.AppendImport(ctx, model.ImportLog{ImportedAt: base.Add(time.Hour), FileName: "b.csv", ImportedCount: 1, Kinds: []model.Kind{model.KindBudget}}))

	items, err := st.ImportHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b.csv", items[0].FileName)
	assert.Equal(t, []model.Kind{model.KindRevenue, model.KindKPI}, items[1].Kinds)
	assert.True(t, items[1].ImportedAt.Equal(base))

	items, err = st.ImportHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "mysql", "x")
	assert.Error(t, err)
}
