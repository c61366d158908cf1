// Package export renders report tables into downloadable documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
	"github.com/ginjaninja78/csv-sales-watcher/pkg/utils"
)

// ErrUnknownFormat is returned for an export format that does not exist.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export document type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatPDF, FormatXML, FormatJSON}

var contentTypes = map[Format]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
	FormatXML:  "application/xml",
	FormatJSON: "application/json",
}

// ParseFormat resolves a format by name, ignoring case and a leading dot.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Extension returns the file extension of the format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders tables in format f to w.
func Write(w io.Writer, f Format, tables ...report.Table) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, tables...)
	case FormatPDF:
		return WritePDF(w, tables...)
	case FormatXML:
		return WriteXML(w, tables...)
	case FormatJSON:
		return WriteJSON(w, tables...)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// Render returns the tables rendered in format f.
func Render(f Format, tables ...report.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, tables...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the tables and atomically replaces path with the result.
func WriteFile(path string, f Format, tables ...report.Table) error {
	data, err := Render(f, tables...)
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
