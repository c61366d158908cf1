// Package service is the read-only query layer over the sales store.
//
// Every query works on one snapshot of the store, so a query never sees a
// day half-replaced by a concurrent event. Money totals are summed with
// shopspring/decimal to avoid float drift across many rows.
package service

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv-sales-watcher/internal/store"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

// OutlierStdDevs is the number of standard deviations above the mean an
// amount must exceed to count as an outlier.
const OutlierStdDevs = 1.0

// Source provides consistent copies of the store.
type Source interface {
	Snapshot() map[civil.Date]types.SalesDay
}

// DayTotal is one entry of the sales trend.
type DayTotal struct {
	Date  civil.Date
	Total decimal.Decimal
}

// Report bundles every statistic computed from a single snapshot.
type Report struct {
	DailyTotals  map[civil.Date]decimal.Decimal
	AverageSales map[civil.Date]decimal.Decimal
	Trend        []DayTotal
	Outliers     map[civil.Date][]float64
}

// SalesService answers sales queries.
type SalesService struct {
	source Source
}

func NewSalesService(source Source) *SalesService {
	return &SalesService{source: source}
}

// TotalPerDay sums the amounts of every date.
func (s *SalesService) TotalPerDay() map[civil.Date]decimal.Decimal {
	return totals(s.source.Snapshot())
}

// AveragePerDay returns the mean amount of every date. Dates without
// entries are omitted.
func (s *SalesService) AveragePerDay() map[civil.Date]decimal.Decimal {
	return averages(s.source.Snapshot())
}

// SalesTrend returns the daily totals sorted by total, highest first. Equal
// totals keep ascending date order.
func (s *SalesService) SalesTrend() []DayTotal {
	return trend(s.source.Snapshot())
}

// DetectOutliers returns, per date, the amounts strictly above
// mean + OutlierStdDevs * sample standard deviation, in time-of-day order.
// Dates with fewer than two amounts are skipped, and dates without any
// outlier are absent.
func (s *SalesService) DetectOutliers() map[civil.Date][]float64 {
	return outliers(s.source.Snapshot())
}

// GenerateReport computes every statistic from one snapshot.
func (s *SalesService) GenerateReport() Report {
	snapshot := s.source.Snapshot()
	return Report{
		DailyTotals:  totals(snapshot),
		AverageSales: averages(snapshot),
		Trend:        trend(snapshot),
		Outliers:     outliers(snapshot),
	}
}

func dayTotal(day types.SalesDay) decimal.Decimal {
	total := decimal.Zero
	for _, hs := range day.Data {
		total = total.Add(decimal.NewFromFloat(hs.Amount()))
	}
	return total
}

func totals(snapshot map[civil.Date]types.SalesDay) map[civil.Date]decimal.Decimal {
	out := make(map[civil.Date]decimal.Decimal, len(snapshot))
	for date, day := range snapshot {
		out[date] = dayTotal(day)
	}
	return out
}

func averages(snapshot map[civil.Date]types.SalesDay) map[civil.Date]decimal.Decimal {
	out := make(map[civil.Date]decimal.Decimal, len(snapshot))
	for date, day := range snapshot {
		if day.Len() == 0 {
			continue
		}
		out[date] = dayTotal(day).Div(decimal.NewFromInt(int64(day.Len())))
	}
	return out
}

func trend(snapshot map[civil.Date]types.SalesDay) []DayTotal {
	dates := store.SortedDates(snapshot)

	out := make([]DayTotal, len(dates))
	for i, date := range dates {
		out[i] = DayTotal{Date: date, Total: dayTotal(snapshot[date])}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

func outliers(snapshot map[civil.Date]types.SalesDay) map[civil.Date][]float64 {
	out := make(map[civil.Date][]float64)
	for date, day := range snapshot {
		amounts := day.Amounts()
		if len(amounts) < 2 {
			continue
		}

		mean, stddev := meanStdDev(amounts)
		threshold := mean + OutlierStdDevs*stddev

		var found []float64
		for _, a := range amounts {
			if a > threshold {
				found = append(found, a)
			}
		}
		if len(found) > 0 {
			out[date] = found
		}
	}
	return out
}

// meanStdDev returns the mean and the sample standard deviation (n-1) of
// values, which must hold at least two entries.
func meanStdDev(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}
