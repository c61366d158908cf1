package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

var july5 = civil.Date{Year: 2025, Month: 7, Day: 5}

func sampleTables() []report.Table {
	return []report.Table{
		{
			Kind:    report.KindDailyTotals,
			Title:   "Total sales per day",
			Columns: []string{"Day", "Total sales"},
			Rows:    []report.Row{{Day: july5, Values: []string{"300.5"}}},
		},
		{
			Kind:    report.KindOutliers,
			Title:   "Outliers",
			Columns: []string{"Day", "Outlier"},
			Rows:    []report.Row{{Day: july5, Values: []string{"500, 420"}}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "xlsx", want: FormatXLSX},
		{in: ".PDF", want: FormatPDF},
		{in: " xml ", want: FormatXML},
		{in: "json", want: FormatJSON},
		{in: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.ContentType())
			assert.Equal(t, "."+tt.want, Format(got.Extension()))
		})
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("csv"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteXLSX(t *testing.T) {
	data, err := Render(FormatXLSX, sampleTables()...)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"daily-totals", "outliers"}, f.GetSheetList())

	rows, err := f.GetRows("daily-totals")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Day", "Total sales"}, {"2025-07-05", "300.5"}}, rows)

	rows, err = f.GetRows("outliers")
	require.NoError(t, err)
	assert.Equal(t, "500, 420", rows[1][1])
}

func TestWritePDF(t *testing.T) {
	data, err := Render(FormatPDF, sampleTables()...)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestWriteXML(t *testing.T) {
	data, err := Render(FormatXML, sampleTables()...)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<report kind="daily-totals" title="Total sales per day">`)
	assert.Contains(t, out, `<row n="1">`)
	assert.Contains(t, out, `<TotalSales>300.5</TotalSales>`)
	assert.Contains(t, out, `<Outlier>500, 420</Outlier>`)
}

func TestWriteXMLEmpty(t *testing.T) {
	data, err := Render(FormatXML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<salesReports/>")
}

func TestXMLTag(t *testing.T) {
	assert.Equal(t, "TotalSales", xmlTag("Total sales", 1))
	assert.Equal(t, "AvgSales", xmlTag("avg-sales", 1))
	assert.Equal(t, "_2ndDay", xmlTag("2nd day", 0))
	assert.Equal(t, "Column3", xmlTag("  ", 2))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", escapeXML(`a & b <c> "d" 'e'`))
}

func TestWriteJSON(t *testing.T) {
	data, err := Render(FormatJSON, sampleTables()...)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "daily-totals", got[0]["kind"])

	rows := got[0]["rows"].([]any)
	row := rows[0].(map[string]any)
	assert.Equal(t, "2025-07-05", row["day"])
}

func TestWriteJSONEmpty(t *testing.T) {
	data, err := Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "all.json")
	require.NoError(t, WriteFile(path, FormatJSON, sampleTables()...))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total sales per day")
}
