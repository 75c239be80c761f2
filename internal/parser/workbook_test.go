package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixtureSheet struct {
	name string
	rows [][]any
}

func buildXLSX(t *testing.T, sheets ...fixtureSheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"data.CSV", nil, FormatCSV},
		{"book.xlsx", nil, FormatXLSX},
		{"legacy.xls", nil, FormatXLS},
		{"upload", []byte("PK\x03\x04rest"), FormatXLSX},
		{"upload", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0}, FormatXLS},
	}
	for _, c := range cases {
		got, err := DetectFormat(c.name, c.data)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
	}

	_, err := DetectFormat("report.pdf", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = DetectFormat("blob", []byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseWorkbook_XLSX(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t,
		fixtureSheet{"Revenue Jan-Dec", [][]any{
			{"Month", "Revenue", "Target", "Expense"},
			{"Jan", 4500, 4000, 3200},
			{nil, nil, nil, nil},
			{"Feb", 5200, nil, 3400},
		}},
		fixtureSheet{"Misc Notes", [][]any{{"note"}, {"hello"}}},
		fixtureSheet{"Empty", nil},
	)

	wb, err := ParseWorkbook(context.Background(), "book.xlsx", data, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, wb.Format)
	assert.Equal(t, []string{"Revenue Jan-Dec", "Misc Notes", "Empty"}, wb.SheetNames())

	rev := wb.Sheets[0]
	assert.Equal(t, []string{"Month", "Revenue", "Target", "Expense"}, rev.Headers)
	require.Len(t, rev.Rows, 2)
	assert.Equal(t, "4500", rev.Rows[0]["Revenue"])
	_, ok := rev.Rows[1]["Target"]
	assert.False(t, ok)

	assert.Empty(t, wb.Sheets[2].Rows)

	mapped := MapRevenueData(rev.Rows)
	assert.Equal(t, 5200, mapped[1].Revenue)
	assert.Equal(t, 0, mapped[1].Target)
}

func TestParseWorkbook_DuplicateHeaders(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, fixtureSheet{"KPI", [][]any{
		{"division", "actual", "actual"},
		{"Sales", 1, 2, "ignored"},
	}})
	wb, err := ParseWorkbook(context.Background(), "kpi.xlsx", data, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []string{"division", "actual", "actual_1"}, wb.Sheets[0].Headers)
	assert.Equal(t, RawRow{"division": "Sales", "actual": "1", "actual_1": "2"}, wb.Sheets[0].Rows[0])
}

func TestParseWorkbook_KeepsRowWithOnlyUnlabelledCells(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, fixtureSheet{"Revenue", [][]any{
		{"month", "revenue"},
		{"Jan", 10},
		{nil, nil, "note"},
		{"Mar", 30},
	}})
	wb, err := ParseWorkbook(context.Background(), "revenue.xlsx", data, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, wb.Sheets[0].Rows, 3)
	assert.Empty(t, wb.Sheets[0].Rows[1])

	mapped := MapRevenueData(wb.Sheets[0].Rows)
	require.Len(t, mapped, 3)
	assert.Equal(t, "Mar", mapped[2].Month)
	assert.Equal(t, 0, mapped[1].Revenue)
}

func TestParseWorkbook_Rejects(t *testing.T) {
	t.Parallel()

	_, err := ParseWorkbook(context.Background(), "bad.xlsx", []byte("not a zip"), FormatXLSX)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.xlsx", pe.Source)
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = ParseWorkbook(context.Background(), "bad.xls", []byte("garbage bytes"), FormatXLS)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FormatXLS, pe.Format)

	_, err = ParseWorkbook(context.Background(), "x.csv", nil, FormatCSV)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseWorkbook_Cancelled(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, fixtureSheet{"Revenue", [][]any{{"month"}, {"Jan"}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseWorkbook(ctx, "book.xlsx", data, FormatXLSX)
	assert.ErrorIs(t, err, context.Canceled)
}
