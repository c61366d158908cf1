// =============================================================================
// CSV Sales Watcher - Report Module
// =============================================================================
//
// This module turns the sales statistics into presentation-ready tables. Each
// table is a list of (day, values) rows under named columns, which is the
// shape every presentation layer consumes: the text renderer, the exporters
// and the HTTP API.
//
// REPORT KINDS:
//   daily-totals   Day | Total sales     (date ascending)
//   average-sales  Day | Avg sales       (date ascending)
//   sales-trend    Day | Sales           (total descending)
//   outliers       Day | Outlier         (date ascending, values joined by ", ")
//
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv-sales-watcher/internal/service"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

// ErrUnknownKind is returned for a report kind that does not exist.
var ErrUnknownKind = errors.New("unknown report kind")

// AverageDecimals is the number of decimal places averages are rounded to.
const AverageDecimals = 2

// Kind names a report table.
type Kind string

const (
	KindDailyTotals  Kind = "daily-totals"
	KindAverageSales Kind = "average-sales"
	KindSalesTrend   Kind = "sales-trend"
	KindOutliers     Kind = "outliers"
)

// Kinds lists every report kind in display order.
var Kinds = []Kind{KindDailyTotals, KindAverageSales, KindSalesTrend, KindOutliers}

// ParseKind resolves a report kind by name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Statistics is the query side the reports are computed from.
type Statistics interface {
	TotalPerDay() map[civil.Date]decimal.Decimal
	AveragePerDay() map[civil.Date]decimal.Decimal
	SalesTrend() []service.DayTotal
	DetectOutliers() map[civil.Date][]float64
	GenerateReport() service.Report
}

// Observer is notified of every generated table.
type Observer interface {
	ObserveReport(kind string)
}

// =============================================================================
// TABLES
// =============================================================================

// Row is one line of a report table.
type Row struct {
	Day    civil.Date `json:"day"`
	Values []string   `json:"values"`
}

// Table is a rendered report.
type Table struct {
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

var titles = map[Kind]string{
	KindDailyTotals:  "Total sales per day",
	KindAverageSales: "Average sales per day",
	KindSalesTrend:   "Sales trend",
	KindOutliers:     "Outliers",
}

var valueColumns = map[Kind]string{
	KindDailyTotals:  "Total sales",
	KindAverageSales: "Avg sales",
	KindSalesTrend:   "Sales",
	KindOutliers:     "Outlier",
}

func newTable(kind Kind) Table {
	return Table{
		Kind:    kind,
		Title:   titles[kind],
		Columns: []string{"Day", valueColumns[kind]},
		Rows:    []Row{},
	}
}

// Numeric reports whether the table's values are plain numbers.
func (t Table) Numeric() bool {
	return t.Kind != KindOutliers
}

// =============================================================================
// SERVICE
// =============================================================================

// Service builds report tables from the statistics.
type Service struct {
	stats    Statistics
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithObserver reports every generated table to o.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService creates a report service over stats.
func NewService(stats Statistics, opts ...Option) *Service {
	s := &Service{stats: stats}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) observe(kind Kind) {
	if s.observer != nil {
		s.observer.ObserveReport(string(kind))
	}
}

// DailyTotals reports the total sales of every day.
func (s *Service) DailyTotals() Table {
	s.observe(KindDailyTotals)
	return totalsTable(s.stats.TotalPerDay())
}

// AverageSales reports the mean sale of every day with entries.
func (s *Service) AverageSales() Table {
	s.observe(KindAverageSales)
	return averagesTable(s.stats.AveragePerDay())
}

// SalesTrend reports the days ordered by total, highest first.
func (s *Service) SalesTrend() Table {
	s.observe(KindSalesTrend)
	return trendTable(s.stats.SalesTrend())
}

// Outliers reports the unusually high sales of every day.
func (s *Service) Outliers() Table {
	s.observe(KindOutliers)
	return outliersTable(s.stats.DetectOutliers())
}

// Build returns the table for kind.
func (s *Service) Build(kind Kind) (Table, error) {
	switch kind {
	case KindDailyTotals:
		return s.DailyTotals(), nil
	case KindAverageSales:
		return s.AverageSales(), nil
	case KindSalesTrend:
		return s.SalesTrend(), nil
	case KindOutliers:
		return s.Outliers(), nil
	}
	return Table{}, fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// All returns every table, computed from one consistent view of the store.
func (s *Service) All() []Table {
	r := s.stats.GenerateReport()
	for _, k := range Kinds {
		s.observe(k)
	}
	return []Table{
		totalsTable(r.DailyTotals),
		averagesTable(r.AverageSales),
		trendTable(r.Trend),
		outliersTable(r.Outliers),
	}
}

// =============================================================================
// TABLE BUILDERS
// =============================================================================

func sortedKeys[V any](m map[civil.Date]V) []civil.Date {
	dates := make([]civil.Date, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	types.SortDates(dates)
	return dates
}

func totalsTable(totals map[civil.Date]decimal.Decimal) Table {
	t := newTable(KindDailyTotals)
	for _, d := range sortedKeys(totals) {
		t.Rows = append(t.Rows, Row{Day: d, Values: []string{totals[d].String()}})
	}
	return t
}

func averagesTable(avgs map[civil.Date]decimal.Decimal) Table {
	t := newTable(KindAverageSales)
	for _, d := range sortedKeys(avgs) {
		t.Rows = append(t.Rows, Row{Day: d, Values: []string{avgs[d].Round(AverageDecimals).String()}})
	}
	return t
}

func trendTable(trend []service.DayTotal) Table {
	t := newTable(KindSalesTrend)
	for _, dt := range trend {
		t.Rows = append(t.Rows, Row{Day: dt.Date, Values: []string{dt.Total.String()}})
	}
	return t
}

func outliersTable(outliers map[civil.Date][]float64) Table {
	t := newTable(KindOutliers)
	for _, d := range sortedKeys(outliers) {
		values := make([]string, len(outliers[d]))
		for i, v := range outliers[d] {
			values[i] = FormatAmount(v)
		}
		t.Rows = append(t.Rows, Row{Day: d, Values: []string{strings.Join(values, ", ")}})
	}
	return t
}

// FormatAmount renders an amount with the fewest digits that round-trip.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
