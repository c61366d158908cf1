// =============================================================================
// CSV Sales Watcher - CSV Parser Module
// =============================================================================
//
// This module reads delimited sales files into raw, string-keyed rows. It
// knows nothing about the sales model: callers supply a key function that
// derives a map key from each row, and the reader returns one row per
// distinct key.
//
// FILE LAYOUT:
//   - The first line is the header and defines the field names
//   - Every following non-empty line is one data row
//   - The delimiter is configurable (default ';')
//
// DUPLICATE KEYS:
//   When two rows of the same file produce the same key, the later row wins.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
)

// ErrMissingKeyField is returned by a KeyField function when the row has no
// such column.
var ErrMissingKeyField = errors.New("missing key field")

// utf8BOM is stripped from the first header cell of files saved by
// spreadsheet tools.
const utf8BOM = "\ufeff"

// =============================================================================
// ROW DATA STRUCTURES
// =============================================================================

// Record is one raw data row.
type Record struct {
	// Line is the 1-based line number of the row in its file.
	Line int

	// Fields maps header -> trimmed cell value. Cells missing from a short
	// row are present with an empty value.
	Fields map[string]string
}

// KeyFunc derives the map key of a row.
type KeyFunc[K comparable] func(fields map[string]string) (K, error)

// KeyField builds a KeyFunc that parses the named column with parse.
func KeyField[K comparable](name string, parse func(string) (K, error)) KeyFunc[K] {
	return func(fields map[string]string) (K, error) {
		value, ok := fields[name]
		if !ok {
			var zero K
			return zero, fmt.Errorf("%w %q", ErrMissingKeyField, name)
		}
		return parse(value)
	}
}

// RowError reports a failure attributable to a single row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// =============================================================================
// READER
// =============================================================================

// Reader reads whole files into keyed rows.
type Reader[K comparable] struct {
	comma rune
}

// NewReader creates a reader for the configured delimiter.
func NewReader[K comparable](settings config.CSVSettings) (*Reader[K], error) {
	comma, err := config.DelimiterRune(settings.Delimiter)
	if err != nil {
		return nil, err
	}
	return &Reader[K]{comma: comma}, nil
}

// Read reads the file at path and returns its rows keyed by keyFunc.
//
// PARAMETERS:
//   - path: The path to the CSV file.
//   - keyFunc: Derives the key of each row.
//
// RETURNS:
//   - The rows keyed by keyFunc; later duplicates replace earlier ones.
//   - An error if the file cannot be opened or read, or if keyFunc fails for
//     any row. No partial result is returned.
//
// An empty file yields an empty map.
func (r *Reader[K]) Read(path string, keyFunc KeyFunc[K]) (map[K]Record, error) {
	rows, err := Open(path, r.comma)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[K]Record)
	for rows.Next() {
		record := rows.Record()
		key, err := keyFunc(record.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, &RowError{Line: record.Line, Err: err})
		}
		result[key] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return result, nil
}

// =============================================================================
// ROW ITERATOR
// =============================================================================

// Rows iterates over the data rows of an open file one at a time.
//
// USAGE:
//
//	rows, err := Open(path, ';')
//	if err != nil {
//	    return err
//	}
//	defer rows.Close()
//
//	for rows.Next() {
//	    record := rows.Record()
//	    // Process the record...
//	}
//
//	if err := rows.Err(); err != nil {
//	    return err
//	}
type Rows struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
	current Record
	err     error
}

// Open opens path and reads its header line.
func Open(path string, comma rune) (*Rows, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	rows, err := NewRows(file, comma)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rows.file = file
	return rows, nil
}

// NewRows reads the header line from in and returns an iterator over the
// remaining rows. The caller owns in.
func NewRows(in io.Reader, comma rune) (*Rows, error) {
	reader := csv.NewReader(bufio.NewReader(in))
	configureReader(reader, comma)

	rows := &Rows{reader: reader}
	if err := rows.readHeaders(); err != nil {
		return nil, err
	}
	return rows, nil
}

// configureReader applies the settings shared by every sales file.
func configureReader(reader *csv.Reader, comma rune) {
	reader.Comma = comma

	// Short and long rows are tolerated; missing cells read as empty.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// readHeaders reads the header line. A file without one has no rows.
func (p *Rows) readHeaders() error {
	row, err := p.reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}

	if len(row) > 0 {
		row[0] = strings.TrimPrefix(row[0], utf8BOM)
	}
	p.headers = cleanHeaders(row)
	return nil
}

// cleanHeaders trims header values and names empty headers by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// Next advances to the next non-empty row. Returns false when there are no
// more rows or an error occurred.
func (p *Rows) Next() bool {
	if p.err != nil || p.headers == nil {
		return false
	}

	for {
		row, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = fmt.Errorf("error reading row: %w", err)
			return false
		}
		line, _ := p.reader.FieldPos(0)

		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(p.headers))
		for i, header := range p.headers {
			if i < len(row) {
				fields[header] = strings.TrimSpace(row[i])
			} else {
				fields[header] = ""
			}
		}

		p.current = Record{Line: line, Fields: fields}
		return true
	}
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Record returns the current row.
func (p *Rows) Record() Record {
	return p.current
}

// Headers returns the parsed headers.
func (p *Rows) Headers() []string {
	return p.headers
}

// Err returns any error that occurred during iteration.
func (p *Rows) Err() error {
	return p.err
}

// Close closes the underlying file when the iterator owns one.
func (p *Rows) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}
