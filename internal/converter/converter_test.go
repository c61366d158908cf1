package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/csvparser"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
	"github.com/ginjaninja78/csv-sales-watcher/internal/validation"
)

func defaultSettings() config.CSVSettings {
	return config.CSVSettings{Delimiter: ";", KeyName: "hour"}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHourlySalesParserRoundTrip(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "2025-07-05.csv",
		"hour;sales_amount;product;region\n09:00;150;Widget A;East\n")

	parser, err := NewHourlySalesParser(defaultSettings())
	require.NoError(t, err)

	got, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, map[civil.Time]types.HourlySales{
		{Hour: 9}: types.MustHourlySales(150, "Widget A", types.RegionEast),
	}, got)
}

func TestHourlySalesParserDecodeFailureAbortsFile(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr error
	}{
		{name: "zero amount", row: "10:00;0;Widget B;West", wantErr: types.ErrNonPositiveAmount},
		{name: "unknown region", row: "10:00;20;Widget B;Central", wantErr: types.ErrUnknownRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, t.TempDir(), "2025-07-05.csv",
				"hour;sales_amount;product;region\n09:00;150;Widget A;East\n"+tt.row+"\n")

			parser, err := NewHourlySalesParser(defaultSettings())
			require.NoError(t, err)

			got, err := parser.Parse(path)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "2025-07-05.csv", parseErr.File)
			assert.Equal(t, 3, parseErr.Line)
			assert.Equal(t, "10:00", parseErr.Row["hour"])
			assert.Contains(t, parseErr.Error(), "2025-07-05.csv")

			var vErr *validation.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestHourlySalesParserBadTimeKey(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "2025-07-05.csv",
		"hour;sales_amount;product;region\n9 o'clock;150;Widget A;East\n")

	parser, err := NewHourlySalesParser(defaultSettings())
	require.NoError(t, err)

	_, err = parser.Parse(path)
	assert.ErrorIs(t, err, types.ErrInvalidTime)

	var rowErr *csvparser.RowError
	assert.ErrorAs(t, err, &rowErr)
}

func TestHourlySalesParserCustomKeyName(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "2025-07-05.csv",
		"slot,sales_amount,product,region\n14:30,9.5,Gadget,North\n")

	settings := config.CSVSettings{Delimiter: ",", KeyName: "slot"}
	parser, err := NewHourlySalesParser(settings)
	require.NoError(t, err)

	got, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Contains(t, got, civil.Time{Hour: 14, Minute: 30})

	_, err = parser.Parse(writeCSV(t, t.TempDir(), "x.csv", "hour,sales_amount\n09:00,1\n"))
	assert.ErrorIs(t, err, csvparser.ErrMissingKeyField)
}

func TestHourlySalesParserAppliesTransformations(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "2025-07-05.csv",
		"hour;sales_amount;product;region\n 09:00 ;12,50;widget;N\n")

	settings := defaultSettings()
	settings.TransformationRules = []config.TransformationRule{
		{Field: "sales_amount", Actions: []config.TransformationAction{{Type: "replace", Find: ",", Value: "."}}},
		{Field: "region", Actions: []config.TransformationAction{{Type: "lookup", LookupTable: map[string]string{"N": "North"}}}},
		{Field: "product", Actions: []config.TransformationAction{{Type: "title"}}},
	}

	parser, err := NewHourlySalesParser(settings)
	require.NoError(t, err)

	got, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, types.MustHourlySales(12.5, "Widget", types.RegionNorth), got[civil.Time{Hour: 9}])
}

func TestHourlySalesParserEmptyFile(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "2025-07-05.csv", "")

	parser, err := NewHourlySalesParser(defaultSettings())
	require.NoError(t, err)

	got, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type stubReader struct {
	records map[string]csvparser.Record
	err     error
}

func (s stubReader) Read(string, csvparser.KeyFunc[string]) (map[string]csvparser.Record, error) {
	return s.records, s.err
}

type countingDecoder struct {
	calls []int
	fail  int
}

func (d *countingDecoder) Decode(fields map[string]string) (string, error) {
	line := len(d.calls) + 1
	d.calls = append(d.calls, line)
	if fields["v"] == "bad" {
		return "", errors.New("bad value")
	}
	return fields["v"], nil
}

func TestModelParserReportsFirstFailingLine(t *testing.T) {
	reader := stubReader{records: map[string]csvparser.Record{
		"c": {Line: 4, Fields: map[string]string{"v": "bad"}},
		"a": {Line: 2, Fields: map[string]string{"v": "ok"}},
		"b": {Line: 3, Fields: map[string]string{"v": "bad"}},
	}}
	decoder := &countingDecoder{}

	parser := NewModelParser[string, string](reader, nil, decoder, nil)
	_, err := parser.Parse("/tmp/2025-07-05.csv")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Len(t, decoder.calls, 2)
}

func TestModelParserPropagatesReaderError(t *testing.T) {
	readErr := errors.New("disk on fire")
	parser := NewModelParser[string, string](stubReader{err: readErr}, nil, &countingDecoder{}, nil)

	_, err := parser.Parse("x.csv")
	assert.ErrorIs(t, err, readErr)
}
