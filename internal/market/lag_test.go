package market

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panithi-t/nyc-development-land-analysis/internal/config"
	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

func rateTx(borough dataset.Borough, saleDate time.Time, rate float64, ppzfa float64) dataset.AnnotatedTransaction {
	row := tx(borough, saleDate, 1_000_000, ptr(ppzfa))
	row.Rate = rate
	return row
}

func TestMonthlySeries(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		rateTx(dataset.Manhattan, day(2023, 1, 5), 4.0, 300),
		rateTx(dataset.Manhattan, day(2023, 1, 20), 4.5, 310),
		rateTx(dataset.Brooklyn, day(2023, 3, 1), 5.0, 200),
	}
	// A row with no known rate and no ratio still counts toward volume.
	blank := tx(dataset.Queens, day(2023, 3, 15), 500_000, nil)
	blank.RateKnown = false
	rows = append(rows, blank)

	series := MonthlySeries(rows)
	require.Len(t, series, 2)

	jan := series[0]
	assert.Equal(t, "2023-01", jan.Month)
	assert.Equal(t, 2, jan.Count)
	require.NotNil(t, jan.MeanRate)
	assert.InDelta(t, 4.25, *jan.MeanRate, 1e-9)
	require.NotNil(t, jan.MeanPPZFA)
	assert.InDelta(t, 305, *jan.MeanPPZFA, 1e-9)

	mar := series[1]
	assert.Equal(t, "2023-03", mar.Month)
	assert.Equal(t, 2, mar.Count)
	require.NotNil(t, mar.MeanRate)
	assert.InDelta(t, 5.0, *mar.MeanRate, 1e-9) // unknown-rate row excluded
	require.NotNil(t, mar.MeanPPZFA)
	assert.InDelta(t, 200, *mar.MeanPPZFA, 1e-9)
}

func TestPearson(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		r := Pearson([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
		require.NotNil(t, r)
		assert.InDelta(t, 1.0, *r, 1e-9)
	})

	t.Run("perfect negative", func(t *testing.T) {
		r := Pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
		require.NotNil(t, r)
		assert.InDelta(t, -1.0, *r, 1e-9)
	})

	t.Run("too few points", func(t *testing.T) {
		assert.Nil(t, Pearson([]float64{1}, []float64{2}))
		assert.Nil(t, Pearson(nil, nil))
	})

	t.Run("zero variance", func(t *testing.T) {
		assert.Nil(t, Pearson([]float64{5, 5, 5}, []float64{1, 2, 3}))
	})
}

func TestLagCorrelations(t *testing.T) {
	// 12 months where PPZFA tracks the rate from 3 months earlier exactly.
	var rows []dataset.AnnotatedTransaction
	rates := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	for i, rate := range rates {
		d := day(2022, time.Month(i+1), 10)
		rows = append(rows, rateTx(dataset.Manhattan, d, rate, 0)) // ppzfa fixed below
	}
	for i := range rows {
		if i >= 3 {
			rows[i].PPZFA = ptr(100 + 10*rates[i-3])
		} else {
			rows[i].PPZFA = ptr(100)
		}
	}

	series := MonthlySeries(rows)
	corrs := LagCorrelations(series, []int{3, 6})
	require.Len(t, corrs, 2)

	threeMonth := corrs[0]
	assert.Equal(t, 3, threeMonth.LagMonths)
	require.NotNil(t, threeMonth.RatePPZFA)
	assert.InDelta(t, 1.0, *threeMonth.RatePPZFA, 1e-9)
	// Volume is constant at one transaction per month: no variance.
	assert.Nil(t, threeMonth.RateVolume)
}

func TestLagCorrelations_ShortSeries(t *testing.T) {
	series := []MonthlyPoint{{Month: "2023-01", MeanRate: ptr(4), MeanPPZFA: ptr(300), Count: 1}}
	corrs := LagCorrelations(series, []int{3})
	require.Len(t, corrs, 1)
	assert.Nil(t, corrs[0].RatePPZFA)
	assert.Nil(t, corrs[0].RateVolume)
}

func TestPolicyImpact(t *testing.T) {
	event := config.PolicyEvent{Name: "421a_expiration", Date: day(2022, 6, 15), WindowMonths: 6}

	rows := []dataset.AnnotatedTransaction{
		tx(dataset.Manhattan, day(2022, 1, 10), 100, ptr(300)), // pre
		tx(dataset.Manhattan, day(2022, 6, 14), 100, ptr(340)), // pre
		tx(dataset.Manhattan, day(2022, 6, 15), 100, ptr(256)), // boundary day counts as post
		tx(dataset.Manhattan, day(2023, 6, 16), 100, ptr(999)), // outside post window
	}

	impact := PolicyImpact(rows, event)
	assert.Equal(t, 2, impact.PreCount)
	assert.Equal(t, 1, impact.PostCount)

	require.NotNil(t, impact.PreMeanPPZFA)
	assert.InDelta(t, 320, *impact.PreMeanPPZFA, 1e-9)
	require.NotNil(t, impact.PostMeanPPZFA)
	assert.InDelta(t, 256, *impact.PostMeanPPZFA, 1e-9)

	require.NotNil(t, impact.PPZFAChangePercent)
	assert.InDelta(t, -20, *impact.PPZFAChangePercent, 1e-9)
	require.NotNil(t, impact.VolumeChangePercent)
	assert.InDelta(t, -50, *impact.VolumeChangePercent, 1e-9)
}

func TestPolicyImpact_EmptyWindowStaysNil(t *testing.T) {
	event := config.PolicyEvent{Name: "covid_outbreak", Date: day(2020, 3, 1), WindowMonths: 6}
	rows := []dataset.AnnotatedTransaction{
		tx(dataset.Manhattan, day(2020, 4, 1), 100, ptr(300)), // post only
	}

	impact := PolicyImpact(rows, event)
	assert.Equal(t, 0, impact.PreCount)
	assert.Nil(t, impact.PreMeanPPZFA)
	assert.Nil(t, impact.PPZFAChangePercent)
	assert.Nil(t, impact.VolumeChangePercent)
}

func TestBoroughResponses(t *testing.T) {
	var rows []dataset.AnnotatedTransaction
	for i := 0; i < 8; i++ {
		d := day(2022, time.Month(i+1), 10)
		rows = append(rows, rateTx(dataset.Manhattan, d, float64(i+1), 300+float64(i)))
		rows = append(rows, rateTx(dataset.Brooklyn, d, float64(i+1), 200))
	}

	responses := BoroughResponses(rows, ptr(250), 3)
	require.Len(t, responses, 2)

	manhattan := responses[0]
	assert.Equal(t, dataset.Manhattan, manhattan.Borough)
	require.NotNil(t, manhattan.PremiumPercent)
	assert.Greater(t, *manhattan.PremiumPercent, 0.0)

	brooklyn := responses[1]
	assert.Equal(t, dataset.Brooklyn, brooklyn.Borough)
	require.NotNil(t, brooklyn.PremiumPercent)
	assert.Less(t, *brooklyn.PremiumPercent, 0.0)
	// Constant PPZFA: correlation undefined.
	assert.Nil(t, brooklyn.RatePPZFACorrelation)
}

func ExamplePremium() {
	manhattanMean := 305.0
	result := Premium("Manhattan", &manhattanMean, ptr(239.39))
	fmt.Printf("%s: %+.1f%%\n", result.Subject, *result.PremiumPercent)
	// Output: Manhattan: +27.4%
}
