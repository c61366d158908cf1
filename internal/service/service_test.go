package service

import (
	"math"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-sales-watcher/internal/store"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

var (
	july5 = civil.Date{Year: 2025, Month: 7, Day: 5}
	july6 = civil.Date{Year: 2025, Month: 7, Day: 6}
	july7 = civil.Date{Year: 2025, Month: 7, Day: 7}
)

func day(amounts ...float64) types.SalesDay {
	data := make(map[civil.Time]types.HourlySales, len(amounts))
	for i, a := range amounts {
		data[civil.Time{Hour: 8 + i}] = types.MustHourlySales(a, "Widget", types.RegionNorth)
	}
	return types.NewSalesDay(data)
}

func newService(days map[civil.Date]types.SalesDay) *SalesService {
	st := store.NewSalesStore()
	for d, v := range days {
		st.Set(d, v)
	}
	return NewSalesService(st)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestTotalsAndAverages(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{july5: day(150, 150)})

	totals := svc.TotalPerDay()
	require.Len(t, totals, 1)
	assertDecimal(t, "300", totals[july5])

	avgs := svc.AveragePerDay()
	require.Len(t, avgs, 1)
	assertDecimal(t, "150", avgs[july5])
}

func TestTotalsAreExact(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{july5: day(0.1, 0.2)})
	assertDecimal(t, "0.3", svc.TotalPerDay()[july5])
}

func TestAverageOmitsEmptyDays(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july5: day(10, 20),
		july6: types.NewSalesDay(nil),
	})

	avgs := svc.AveragePerDay()
	assert.Len(t, avgs, 1)
	assert.NotContains(t, avgs, july6)

	totals := svc.TotalPerDay()
	assertDecimal(t, "0", totals[july6])
}

func TestSalesTrendDescending(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july5: day(150, 150),
		july6: day(850),
	})

	got := svc.SalesTrend()
	require.Len(t, got, 2)
	assert.Equal(t, july6, got[0].Date)
	assertDecimal(t, "850", got[0].Total)
	assert.Equal(t, july5, got[1].Date)
	assertDecimal(t, "300", got[1].Total)
}

func TestSalesTrendTiesKeepDateOrder(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july7: day(100),
		july5: day(100),
		july6: day(100),
	})

	got := svc.SalesTrend()
	require.Len(t, got, 3)
	assert.Equal(t, []civil.Date{july5, july6, july7}, []civil.Date{got[0].Date, got[1].Date, got[2].Date})
}

func TestDetectOutliers(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july5: day(100, 110, 95, 105, 500, 90, 85),
	})

	got := svc.DetectOutliers()
	assert.Equal(t, map[civil.Date][]float64{july5: {500}}, got)
}

func TestDetectOutliersSkipsSparseAndFlatDays(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july5: day(100),
		july6: day(50, 50, 50),
		july7: types.NewSalesDay(nil),
	})

	assert.Empty(t, svc.DetectOutliers())
}

func TestDetectOutliersKeepsTimeOrder(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july5: day(900, 1, 1, 1, 1, 1, 1, 1, 1, 800),
	})

	assert.Equal(t, []float64{900, 800}, svc.DetectOutliers()[july5])
}

func TestMeanStdDev(t *testing.T) {
	mean, sd := meanStdDev([]float64{100, 110, 95, 105, 500, 90, 85})
	assert.InDelta(t, 155.0, mean, 1e-9)
	assert.InDelta(t, 152.37, sd, 0.01)
	assert.False(t, math.IsNaN(sd))
}

func TestGenerateReport(t *testing.T) {
	svc := newService(map[civil.Date]types.SalesDay{
		july5: day(100, 110, 95, 105, 500, 90, 85),
		july6: day(850),
	})

	r := svc.GenerateReport()
	assertDecimal(t, "1085", r.DailyTotals[july5])
	assertDecimal(t, "155", r.AverageSales[july5])
	require.Len(t, r.Trend, 2)
	assert.Equal(t, july5, r.Trend[0].Date)
	assert.Equal(t, []float64{500}, r.Outliers[july5])
	assert.NotContains(t, r.Outliers, july6)
}

func TestEmptyStore(t *testing.T) {
	svc := newService(nil)

	r := svc.GenerateReport()
	assert.Empty(t, r.DailyTotals)
	assert.Empty(t, r.AverageSales)
	assert.Empty(t, r.Trend)
	assert.Empty(t, r.Outliers)
}
