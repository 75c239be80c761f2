package exporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belajarexportimport-sudo/Oceanland/internal/importer"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/store"
)

func seeded() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.Restore(model.SeedSnapshot())
	return s
}

func TestSheetTitlesClassifyBack(t *testing.T) {
	r := parser.NewSheetRecognizer()
	for _, kind := range model.Kinds {
		title, ok := SheetTitles[kind]
		require.True(t, ok, "missing title for %s", kind)
		assert.Equal(t, kind, r.Recognize(title).Kind, "title %q", title)
	}
	assert.False(t, r.Recognize(SummarySheet).Recognized())
}

func TestExport_Sheets(t *testing.T) {
	var events []ProgressEvent
	f, err := NewExporter(seeded(), "").Export(ExportOptions{
		Year:     "2024",
		Progress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Len(t, f.GetSheetList(), len(model.Kinds)+1)

	rows, err := f.GetRows("Revenue")
	require.NoError(t, err)
	require.Len(t, rows, 13)
	assert.Equal(t, []string{"month", "revenue", "target", "expense"}, rows[0])
	assert.Equal(t, "Jan", rows[1][0])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Len(t, summary, len(model.StatKeys)+1)

	require.NotEmpty(t, events)
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestExport_InvalidYear(t *testing.T) {
	_, err := NewExporter(seeded(), "").Export(ExportOptions{Year: "abc"})
	assert.ErrorIs(t, err, model.ErrInvalidYear)
}

func TestExport_RoundTripThroughImport(t *testing.T) {
	src := seeded()
	f, err := NewExporter(src, "").Export(ExportOptions{Year: "2024"})
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dst := store.NewMemoryStore()
	report, err := importer.NewCoordinator(dst).ImportFile(context.Background(), importer.ImportOptions{
		Filename: FileName("2024"),
		Data:     buf.Bytes(),
		Year:     "2024",
	})
	require.NoError(t, err)
	assert.Equal(t, len(model.Kinds), report.ImportedCount)
	assert.Equal(t, 1, report.SkippedSheets)

	for _, kind := range model.Kinds {
		want, _ := src.GetView(kind, "2024")
		got, _ := dst.GetView(kind, "2024")
		assert.Equal(t, want, got, "kind %s", kind)
	}
}
