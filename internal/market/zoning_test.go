package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

func TestDensityClass(t *testing.T) {
	tests := []struct {
		zoning string
		want   string
	}{
		{"R3", DensityLow},
		{"r5", DensityLow},
		{"R6", DensityMedium},
		{"C2-4", DensityMedium},
		{"R8", DensityHigh},
		{"R10", DensityHigh}, // must not fall into LOW via the R1 prefix
		{"R6/C2-4", DensityMedium},
		{"R10 | C6-4", DensityHigh},
		{"M1-1", DensityOther},
		{"", DensityOther},
	}

	for _, tt := range tests {
		t.Run(tt.zoning, func(t *testing.T) {
			assert.Equal(t, tt.want, DensityClass(tt.zoning))
		})
	}
}

func TestFrontageClass(t *testing.T) {
	assert.Equal(t, FrontageNarrow, FrontageClass(20))
	assert.Equal(t, FrontageNarrow, FrontageClass(25))
	assert.Equal(t, FrontageMid, FrontageClass(30))
	assert.Equal(t, FrontageMid, FrontageClass(45))
	assert.Equal(t, FrontageWide, FrontageClass(60))
}

func TestSliverApplicable(t *testing.T) {
	tests := []struct {
		name     string
		zoning   string
		frontage *float64
		want     bool
	}{
		{"narrow lot in tower district", "R8", ptr(30), true},
		{"narrow lot in commercial tower district", "C6-4X", ptr(40), true},
		{"wide lot in tower district", "R8", ptr(60), false},
		{"exactly 45 ft is exempt", "R8", ptr(45), false},
		{"narrow lot outside tower districts", "R3", ptr(30), false},
		{"unknown frontage", "R8", nil, false},
		{"unknown zoning", "", ptr(30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SliverApplicable(tt.zoning, tt.frontage))
		})
	}
}

func zonedTx(zoning string, frontage *float64, ppzfa float64) dataset.AnnotatedTransaction {
	row := tx(dataset.Manhattan, day(2023, 1, 1), 1_000_000, ptr(ppzfa))
	row.ZoningDistricts = zoning
	row.LotFrontage = frontage
	return row
}

func TestDensityBuckets(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		zonedTx("R3", nil, 100),
		zonedTx("R6", nil, 200),
		zonedTx("R9", nil, 400),
		zonedTx("M1-1", nil, 50),
	}

	buckets := DensityBuckets(rows)
	require.Len(t, buckets, 4)

	labels := make([]string, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.Label)
		assert.Equal(t, 1, b.Count)
	}
	assert.ElementsMatch(t, []string{DensityLow, DensityMedium, DensityHigh, DensityOther}, labels)
}

func TestFrontageBuckets_SkipsUnknownFrontage(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		zonedTx("R6", ptr(20), 100),
		zonedTx("R6", ptr(30), 200),
		zonedTx("R6", nil, 300),
	}

	buckets := FrontageBuckets(rows)
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestSliverBuckets(t *testing.T) {
	rows := []dataset.AnnotatedTransaction{
		zonedTx("R8", ptr(30), 500),
		zonedTx("R8", ptr(80), 400),
		zonedTx("R3", ptr(30), 100),
	}

	buckets := SliverBuckets(rows)
	require.Len(t, buckets, 2)

	byLabel := make(map[string]ClassBucket)
	for _, b := range buckets {
		byLabel[b.Label] = b
	}
	assert.Equal(t, 1, byLabel["sliver-restricted"].Count)
	assert.Equal(t, 2, byLabel["unrestricted"].Count)
}

func TestZScoreFlags(t *testing.T) {
	// Thirty tight values and one far outlier.
	var values []*float64
	for i := 0; i < 30; i++ {
		values = append(values, ptr(100+float64(i%5)))
	}
	values = append(values, ptr(100_000))

	flags := ZScoreFlags(values, 3)
	require.Len(t, flags, len(values))
	for i := 0; i < 30; i++ {
		assert.False(t, flags[i], "value %d should not be flagged", i)
	}
	assert.True(t, flags[30], "outlier should be flagged")
}

func TestZScoreFlags_NilAndDegenerate(t *testing.T) {
	// Nil entries never flagged.
	flags := ZScoreFlags([]*float64{nil, ptr(100), ptr(200), nil}, 3)
	assert.Equal(t, []bool{false, false, false, false}, flags)

	// Too few defined values: nothing flagged.
	assert.Equal(t, []bool{false}, ZScoreFlags([]*float64{ptr(5)}, 3))

	// Zero variance: nothing flagged.
	flags = ZScoreFlags([]*float64{ptr(7), ptr(7), ptr(7)}, 3)
	assert.Equal(t, []bool{false, false, false}, flags)
}
