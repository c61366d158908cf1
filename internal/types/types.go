// =============================================================================
// CSV Sales Watcher - Shared Types
// =============================================================================
//
// This package contains the sales data model shared by the parser, the store,
// the ingestion handler and the reporting layers. Keeping it in one leaf
// package avoids import cycles between those modules.
//
// MODEL:
//   SalesStore (date) -> SalesDay (time of day) -> HourlySales
//
// Keys are civil dates and civil times: they carry no location and compare
// by value, so they can be used directly as map keys.
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// =============================================================================
// KEY LAYOUTS
// =============================================================================

const (
	// DefaultDateLayout is the layout of a sales file base name (YYYY-MM-DD).
	DefaultDateLayout = "2006-01-02"

	// DefaultTimeLayout is the layout of the per-row time-of-day key (HH:MM).
	DefaultTimeLayout = "15:04"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNonPositiveAmount = errors.New("sales amount must be greater than zero")
	ErrUnknownRegion     = errors.New("unknown region")
	ErrEmptyProduct      = errors.New("product must not be empty")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidTime       = errors.New("invalid time of day")
)

// =============================================================================
// REGION
// =============================================================================

// Region is the sales region of a record. Matching is case-sensitive.
type Region string

const (
	RegionNorth Region = "North"
	RegionWest  Region = "West"
	RegionEast  Region = "East"
	RegionSouth Region = "South"
)

// Regions lists every valid region.
var Regions = []Region{RegionNorth, RegionWest, RegionEast, RegionSouth}

// ParseRegion returns the region named by s.
func ParseRegion(s string) (Region, error) {
	for _, r := range Regions {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// =============================================================================
// HOURLY SALES
// =============================================================================

// HourlySales is one decoded CSV row. The zero value is not valid; build
// instances with NewHourlySales. Fields are unexported so a constructed value
// cannot change.
type HourlySales struct {
	amount  float64
	product string
	region  Region
}

// NewHourlySales validates and builds a record.
func NewHourlySales(amount float64, product string, region Region) (HourlySales, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return HourlySales{}, fmt.Errorf("%w: %v", ErrNonPositiveAmount, amount)
	}
	if strings.TrimSpace(product) == "" {
		return HourlySales{}, ErrEmptyProduct
	}
	if _, err := ParseRegion(string(region)); err != nil {
		return HourlySales{}, err
	}
	return HourlySales{amount: amount, product: product, region: region}, nil
}

// MustHourlySales is NewHourlySales for literals known to be valid.
func MustHourlySales(amount float64, product string, region Region) HourlySales {
	hs, err := NewHourlySales(amount, product, region)
	if err != nil {
		panic(err)
	}
	return hs
}

func (h HourlySales) Amount() float64 { return h.amount }
func (h HourlySales) Product() string { return h.product }
func (h HourlySales) Region() Region  { return h.region }

func (h HourlySales) String() string {
	return fmt.Sprintf("sales_amount=%v product=%q region=%s", h.amount, h.product, h.region)
}

// =============================================================================
// SALES DAY
// =============================================================================

// SalesDay holds the records of one file keyed by time of day. A SalesDay is
// replaced wholesale when its file changes and is never mutated after it has
// been handed to the store.
type SalesDay struct {
	Data map[civil.Time]HourlySales
}

// NewSalesDay wraps the parsed records of one file.
func NewSalesDay(data map[civil.Time]HourlySales) SalesDay {
	if data == nil {
		data = make(map[civil.Time]HourlySales)
	}
	return SalesDay{Data: data}
}

// Len returns the number of records.
func (d SalesDay) Len() int { return len(d.Data) }

// Times returns the record keys in ascending order.
func (d SalesDay) Times() []civil.Time {
	times := make([]civil.Time, 0, len(d.Data))
	for t := range d.Data {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool {
		return TimeBefore(times[i], times[j])
	})
	return times
}

// Amounts returns the sales amounts ordered by time of day.
func (d SalesDay) Amounts() []float64 {
	amounts := make([]float64, 0, len(d.Data))
	for _, t := range d.Times() {
		amounts = append(amounts, d.Data[t].Amount())
	}
	return amounts
}

// =============================================================================
// KEY PARSING
// =============================================================================

// ParseDate parses a calendar date using layout (DefaultDateLayout if empty).
func ParseDate(layout, value string) (civil.Date, error) {
	if layout == "" {
		layout = DefaultDateLayout
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, value, err)
	}
	return civil.DateOf(t), nil
}

// ParseTimeOfDay parses a time of day using layout (DefaultTimeLayout if empty).
func ParseTimeOfDay(layout, value string) (civil.Time, error) {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return civil.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidTime, value, err)
	}
	return civil.TimeOf(t), nil
}

// FormatTimeOfDay renders t as HH:MM, or HH:MM:SS when seconds are set.
func FormatTimeOfDay(t civil.Time) string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeBefore reports whether a is earlier in the day than b.
func TimeBefore(a, b civil.Time) bool {
	if a.Hour != b.Hour {
		return a.Hour < b.Hour
	}
	if a.Minute != b.Minute {
		return a.Minute < b.Minute
	}
	if a.Second != b.Second {
		return a.Second < b.Second
	}
	return a.Nanosecond < b.Nanosecond
}

// SortDates sorts dates in ascending order.
func SortDates(dates []civil.Date) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
}
