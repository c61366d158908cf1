package types

import (
	"math"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHourlySales(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		product string
		region  Region
		wantErr error
	}{
		{name: "valid", amount: 150, product: "Widget A", region: RegionEast},
		{name: "zero amount", amount: 0, product: "Widget A", region: RegionEast, wantErr: ErrNonPositiveAmount},
		{name: "negative amount", amount: -3.5, product: "Widget A", region: RegionEast, wantErr: ErrNonPositiveAmount},
		{name: "nan amount", amount: math.NaN(), product: "Widget A", region: RegionEast, wantErr: ErrNonPositiveAmount},
		{name: "empty product", amount: 10, product: "  ", region: RegionNorth, wantErr: ErrEmptyProduct},
		{name: "unknown region", amount: 10, product: "Widget", region: Region("Central"), wantErr: ErrUnknownRegion},
		{name: "region is case sensitive", amount: 10, product: "Widget", region: Region("north"), wantErr: ErrUnknownRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, err := NewHourlySales(tt.amount, tt.product, tt.region)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, hs.Amount())
			assert.Equal(t, tt.product, hs.Product())
			assert.Equal(t, tt.region, hs.Region())
		})
	}
}

func TestParseRegion(t *testing.T) {
	for _, r := range Regions {
		got, err := ParseRegion(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRegion("Nowhere")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("", "2025-07-05")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2025, Month: 7, Day: 5}, d)

	_, err = ParseDate("", "05-07-2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err = ParseDate("02.01.2006", "05.07.2025")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2025, Month: 7, Day: 5}, d)
}

func TestParseTimeOfDay(t *testing.T) {
	tm, err := ParseTimeOfDay("", "09:00")
	require.NoError(t, err)
	assert.Equal(t, civil.Time{Hour: 9}, tm)
	assert.Equal(t, "09:00", FormatTimeOfDay(tm))

	_, err = ParseTimeOfDay("", "9am")
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = ParseTimeOfDay("", "25:00")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestSalesDayAmountsOrderedByTime(t *testing.T) {
	day := NewSalesDay(map[civil.Time]HourlySales{
		{Hour: 14}:            MustHourlySales(30, "C", RegionSouth),
		{Hour: 9}:             MustHourlySales(10, "A", RegionNorth),
		{Hour: 9, Minute: 30}: MustHourlySales(20, "B", RegionWest),
	})

	assert.Equal(t, 3, day.Len())
	assert.Equal(t, []float64{10, 20, 30}, day.Amounts())
	assert.Equal(t, []civil.Time{{Hour: 9}, {Hour: 9, Minute: 30}, {Hour: 14}}, day.Times())
}

func TestNewSalesDayNil(t *testing.T) {
	day := NewSalesDay(nil)
	assert.NotNil(t, day.Data)
	assert.Equal(t, 0, day.Len())
	assert.Empty(t, day.Amounts())
}
