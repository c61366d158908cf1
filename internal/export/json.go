package export

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes the tables as an indented JSON array.
func WriteJSON(w io.Writer, tables ...report.Table) error {
	if tables == nil {
		tables = []report.Table{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tables)
}
