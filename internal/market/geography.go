package market

import (
	"math"
	"sort"

	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

// HotspotQuantile is the PPZFA quantile a sale must exceed to mark its
// neighborhood as a hotspot.
const HotspotQuantile = 0.9

// NeighborhoodBuckets aggregates rows by borough and neighborhood. Rows
// without a neighborhood are left out; labels are "Borough / Neighborhood".
func NeighborhoodBuckets(rows []dataset.AnnotatedTransaction) []ClassBucket {
	return GroupByClass(rows, func(row dataset.AnnotatedTransaction) (string, bool) {
		if row.Neighborhood == "" {
			return "", false
		}
		return string(row.Borough) + " / " + row.Neighborhood, true
	})
}

// Hotspots counts, per neighborhood, the sales whose PPZFA strictly
// exceeds the dataset-wide HotspotQuantile threshold. The threshold is
// returned alongside the counts; it is nil (and the list empty) when no
// row has a defined ratio. Results are ordered by count descending, then
// borough and neighborhood.
func Hotspots(rows []dataset.AnnotatedTransaction) (*float64, []Hotspot) {
	threshold := Quantile(DefinedRatios(rows), HotspotQuantile)
	if threshold == nil {
		return nil, nil
	}

	type key struct {
		borough      dataset.Borough
		neighborhood string
	}
	counts := make(map[key]int)
	for _, row := range rows {
		if row.Neighborhood == "" || row.PPZFA == nil || *row.PPZFA <= *threshold {
			continue
		}
		counts[key{row.Borough, row.Neighborhood}]++
	}

	out := make([]Hotspot, 0, len(counts))
	for k, n := range counts {
		out = append(out, Hotspot{Borough: k.borough, Neighborhood: k.neighborhood, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Borough != out[j].Borough {
			return out[i].Borough < out[j].Borough
		}
		return out[i].Neighborhood < out[j].Neighborhood
	})
	return threshold, out
}

// Quantile returns the q-quantile of xs using linear interpolation
// between adjacent order statistics, or nil for an empty slice. q is
// clamped to [0, 1].
func Quantile(xs []float64, q float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if q <= 0 {
		return ptr(sorted[0])
	}
	if q >= 1 {
		return ptr(sorted[len(sorted)-1])
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if frac == 0 {
		return ptr(sorted[lo])
	}
	return ptr(sorted[lo] + frac*(sorted[lo+1]-sorted[lo]))
}
