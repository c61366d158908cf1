package ingest

import (
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/converter"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

// SalesHandler keeps a sales store in sync with <YYYY-MM-DD>.csv files.
type SalesHandler = Handler[civil.Date, civil.Time, types.HourlySales, types.SalesDay]

// Stem returns the base name of path without its last extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DateFromPath returns a key function parsing the file stem with layout.
func DateFromPath(layout string) func(path string) (civil.Date, error) {
	return func(path string) (civil.Date, error) {
		return types.ParseDate(layout, Stem(path))
	}
}

// SalesDayFromRecords wraps the parsed rows of one file.
func SalesDayFromRecords(records map[civil.Time]types.HourlySales) types.SalesDay {
	return types.NewSalesDay(records)
}

// NewSalesHandler builds the sales handler for dir and bootstraps the store
// from the files already present.
func NewSalesHandler(dir string, store Store[civil.Date, types.SalesDay], settings config.CSVSettings, opts ...Option) (*SalesHandler, error) {
	parser, err := converter.NewHourlySalesParser(settings)
	if err != nil {
		return nil, err
	}

	h := NewHandler[civil.Date, civil.Time, types.HourlySales, types.SalesDay](
		dir,
		store,
		parser,
		DateFromPath(settings.DateLayout),
		SalesDayFromRecords,
		opts...,
	)
	h.Bootstrap()
	return h, nil
}
