package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_HeadersLowercasedAndTrimmed(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV(" Month , REVENUE,Target,expense\nJan, 4500 ,4000,3200\n\n\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "revenue", "target", "expense"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, RawRow{"month": "Jan", "revenue": "4500", "target": "4000", "expense": "3200"}, sheet.Rows[0])
}

func TestParseCSV_ShortRowOmitsTrailingFields(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("month,revenue,target,expense\nMar,4800")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	_, ok := sheet.Rows[0]["target"]
	assert.False(t, ok)
	assert.Equal(t, "4800", sheet.Rows[0]["revenue"])
}

func TestParseCSV_QuotedCommas(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("category,budget,actual\r\n\"HR, GA\",15000,14200\r\n")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "HR, GA", sheet.Rows[0]["category"])
	assert.Equal(t, "14200", sheet.Rows[0]["actual"])
}

func TestParseCSV_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseCSV("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FormatCSV, pe.Format)
}

func TestParseCSV_BareQuoteInField(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("category,budget,actual\nMonitor 24\" screens,5000,4000\nMarketing,100,90\n\"Ops, Field\",7,6\n")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, `Monitor 24" screens`, sheet.Rows[0]["category"])
	assert.Equal(t, "5000", sheet.Rows[0]["budget"])
	assert.Equal(t, "Marketing", sheet.Rows[1]["category"])
	assert.Equal(t, "Ops, Field", sheet.Rows[2]["category"])
	assert.Equal(t, "7", sheet.Rows[2]["budget"])
}

func TestParseCSVBytes_Encodings(t *testing.T) {
	t.Parallel()

	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("month,revenue\nJan,1\n")...)
	sheet, err := ParseCSVBytes("revenue", bom)
	require.NoError(t, err)
	assert.Equal(t, "month", sheet.Headers[0])
	assert.Equal(t, "revenue", sheet.Name)

	// 0xE9 在 Windows-1252 中为 é
	latin := []byte("segment,value\nEnerg\xe9tica,5\n")
	sheet, err = ParseCSVBytes("segments", latin)
	require.NoError(t, err)
	assert.Equal(t, "Energética", sheet.Rows[0]["segment"])

	utf16 := []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0, '\n', 0, '1', 0, ',', 0, '2', 0}
	sheet, err = ParseCSVBytes("u16", utf16)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sheet.Headers)
	assert.Equal(t, "2", sheet.Rows[0]["b"])
}

func TestParseCSVBytes_ErrorCarriesSource(t *testing.T) {
	t.Parallel()

	_, err := ParseCSVBytes("empty.csv", nil)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "empty.csv", pe.Source)
}
