package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panithi-t/nyc-development-land-analysis/internal/config"
	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

func tx(borough dataset.Borough, saleDate time.Time, price float64, ppzfa *float64) dataset.AnnotatedTransaction {
	return dataset.AnnotatedTransaction{
		Transaction: dataset.Transaction{
			Borough:   borough,
			SaleDate:  saleDate,
			SalePrice: price,
			PPZFA:     ppzfa,
		},
		RateKnown: true,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{"empty", nil, nil},
		{"single", []float64{42}, ptr(42)},
		{"odd count", []float64{300, 100, 200}, ptr(200)},
		{"even count averages middle pair", []float64{100, 200, 300, 400}, ptr(250)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.values)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestAggregate_BoroughMeans(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		tx(dataset.Manhattan, day(2023, 1, 10), 3_000_000, ptr(300)),
		tx(dataset.Manhattan, day(2023, 2, 11), 3_100_000, ptr(310)),
		tx(dataset.Brooklyn, day(2023, 3, 12), 1_000_000, ptr(200)),
	}

	buckets := Aggregate(rows, WholePeriod)
	require.Len(t, buckets, 2)

	manhattan := buckets[0]
	assert.Equal(t, dataset.Manhattan, manhattan.Borough)
	assert.Equal(t, 2, manhattan.Count)
	assert.Equal(t, 6_100_000.0, manhattan.TotalVolume)
	require.NotNil(t, manhattan.MeanPPZFA)
	assert.InDelta(t, 305, *manhattan.MeanPPZFA, 1e-9)

	// Against the worked baseline: (305/239.39 - 1) * 100 ≈ +27.4%.
	premium := Premium("Manhattan", manhattan.MeanPPZFA, ptr(239.39))
	require.NotNil(t, premium.PremiumPercent)
	assert.InDelta(t, 27.4, *premium.PremiumPercent, 0.05)
}

func TestAggregate_CountInvariant(t *testing.T) {
	// Bucket counts must sum to the number of aggregated rows, including
	// rows whose PPZFA is undefined.
	rows := []dataset.AnnotatedTransaction{
		tx(dataset.Manhattan, day(2021, 5, 1), 100, ptr(10)),
		tx(dataset.Manhattan, day(2022, 5, 1), 100, nil),
		tx(dataset.Queens, day(2022, 6, 1), 100, ptr(20)),
		tx(dataset.Bronx, day(2023, 7, 1), 100, ptr(30)),
		tx(dataset.Bronx, day(2023, 8, 1), 100, nil),
	}

	buckets := Aggregate(rows, ByYear)
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, len(rows), total)
}

func TestAggregate_UndefinedRatioBucketIsNilNotZero(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		tx(dataset.Queens, day(2023, 1, 1), 500_000, nil),
	}

	buckets := Aggregate(rows, WholePeriod)
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Nil(t, buckets[0].MeanPPZFA)
	assert.Nil(t, buckets[0].MedianPPZFA)
}

func TestAggregate_EmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, ByYear))
}

func TestPeriodizers(t *testing.T) {
	d := day(2023, 6, 15)

	label, ok := ByYear(d)
	assert.True(t, ok)
	assert.Equal(t, "2023", label)

	label, ok = ByQuarter(d)
	assert.True(t, ok)
	assert.Equal(t, "2023-Q2", label)

	label, ok = ByMonth(d)
	assert.True(t, ok)
	assert.Equal(t, "2023-06", label)
}

func TestByPolicyEras(t *testing.T) {
	events := []config.PolicyEvent{
		{Name: "421a_expiration", Date: day(2022, 6, 15), WindowMonths: 6},
	}
	periodize := ByPolicyEras(events)

	tests := []struct {
		name  string
		date  time.Time
		label string
		ok    bool
	}{
		{"inside pre window", day(2022, 2, 1), "pre-421a_expiration", true},
		{"day before boundary", day(2022, 6, 14), "pre-421a_expiration", true},
		{"boundary date is post", day(2022, 6, 15), "post-421a_expiration", true},
		{"inside post window", day(2022, 11, 30), "post-421a_expiration", true},
		{"before both windows", day(2021, 1, 1), "", false},
		{"after both windows", day(2023, 6, 15), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := periodize(tt.date)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestPeriodizerFor(t *testing.T) {
	for _, period := range []string{"year", "quarter", "month", "era"} {
		_, err := PeriodizerFor(period, config.DefaultEvents())
		assert.NoError(t, err, period)
	}

	_, err := PeriodizerFor("decade", nil)
	assert.Error(t, err)
}

func TestGroupByClass_DropsUnclassifiedRows(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		tx(dataset.Manhattan, day(2023, 1, 1), 100, ptr(10)),
		tx(dataset.Brooklyn, day(2023, 1, 1), 200, ptr(20)),
	}

	buckets := GroupByClass(rows, func(r dataset.AnnotatedTransaction) (string, bool) {
		if r.Borough == dataset.Brooklyn {
			return "", false
		}
		return "kept", true
	})

	require.Len(t, buckets, 1)
	assert.Equal(t, "kept", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].Count)
}
