// =============================================================================
// CSV Sales Watcher - Model Parser
// =============================================================================
//
// This module turns a whole CSV file into typed records keyed per row. It
// composes the row reader (csvparser) with a row decoder (validation):
//
//   1. Read the file into raw rows keyed by the row key function
//   2. Apply the configured transformation rules
//   3. Decode every row into the target record type
//
// FAILURE POLICY:
//   Parsing is all-or-nothing per file. The first row that fails to decode
//   aborts the file with a *ParseError naming the file, the line and the
//   row content; no partial mapping is ever returned.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/csvparser"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
	"github.com/ginjaninja78/csv-sales-watcher/internal/validation"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// RowReader reads a file into raw rows keyed by keyFunc.
type RowReader[K comparable] interface {
	Read(path string, keyFunc csvparser.KeyFunc[K]) (map[K]csvparser.Record, error)
}

// RowDecoder decodes one raw row into a record.
type RowDecoder[V any] interface {
	Decode(fields map[string]string) (V, error)
}

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError reports the row that aborted a file.
type ParseError struct {
	// File is the base name of the source file.
	File string

	// Line is the 1-based line number of the offending row.
	Line int

	// Row is the raw content of the offending row.
	Row map[string]string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s line %d (%s): %v", e.File, e.Line, formatRow(e.Row), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// formatRow renders a row as sorted key=value pairs.
func formatRow(row map[string]string) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, row[k])
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// MODEL PARSER
// =============================================================================

// ModelParser parses whole files into records of type V keyed by K.
type ModelParser[K comparable, V any] struct {
	reader      RowReader[K]
	key         csvparser.KeyFunc[K]
	decoder     RowDecoder[V]
	transformer *Transformer
}

// NewModelParser composes a reader, a row key function and a decoder. The
// transformer may be nil.
func NewModelParser[K comparable, V any](
	reader RowReader[K],
	key csvparser.KeyFunc[K],
	decoder RowDecoder[V],
	transformer *Transformer,
) *ModelParser[K, V] {
	return &ModelParser[K, V]{
		reader:      reader,
		key:         key,
		decoder:     decoder,
		transformer: transformer,
	}
}

// Parse reads the file at path and decodes every row.
//
// RETURNS:
//   - The decoded records keyed per row.
//   - The reader's error if the file cannot be read or a row key cannot be
//     derived, or a *ParseError for the first row (in file order) that fails
//     to decode.
func (p *ModelParser[K, V]) Parse(path string) (map[K]V, error) {
	keyFunc := func(fields map[string]string) (K, error) {
		return p.key(p.transformer.TransformRow(fields))
	}

	records, err := p.reader.Read(path, keyFunc)
	if err != nil {
		return nil, err
	}

	keys := make([]K, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return records[keys[i]].Line < records[keys[j]].Line
	})

	result := make(map[K]V, len(records))
	for _, k := range keys {
		record := records[k]
		value, err := p.decoder.Decode(p.transformer.TransformRow(record.Fields))
		if err != nil {
			return nil, &ParseError{
				File: filepath.Base(path),
				Line: record.Line,
				Row:  record.Fields,
				Err:  err,
			}
		}
		result[k] = value
	}

	return result, nil
}

// =============================================================================
// HOURLY SALES PARSER
// =============================================================================

// HourlySalesParser parses one day of sales keyed by time of day.
type HourlySalesParser = ModelParser[civil.Time, types.HourlySales]

// NewHourlySalesParser builds the sales file parser from the CSV settings:
// rows are keyed by the settings.KeyName column parsed with TimeLayout.
func NewHourlySalesParser(settings config.CSVSettings) (*HourlySalesParser, error) {
	reader, err := csvparser.NewReader[civil.Time](settings)
	if err != nil {
		return nil, err
	}

	transformer, err := NewTransformer(settings.TransformationRules)
	if err != nil {
		return nil, err
	}

	keyName := settings.KeyName
	if keyName == "" {
		keyName = "hour"
	}
	layout := settings.TimeLayout
	key := csvparser.KeyField(keyName, func(value string) (civil.Time, error) {
		return types.ParseTimeOfDay(layout, value)
	})

	return NewModelParser[civil.Time, types.HourlySales](
		reader,
		key,
		validation.NewDecoder(settings.Fields),
		transformer,
	), nil
}
