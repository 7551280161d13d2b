package market

import (
	"fmt"
	"sort"
	"time"

	"github.com/panithi-t/nyc-development-land-analysis/internal/config"
	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

// Periodizer maps a sale date to a period label. Returning ok=false drops
// the row from the grouping (used by era bucketing for rows outside every
// era window).
type Periodizer func(t time.Time) (label string, ok bool)

// ByYear buckets by calendar year.
func ByYear(t time.Time) (string, bool) {
	return fmt.Sprintf("%d", t.Year()), true
}

// ByQuarter buckets by calendar quarter, e.g. "2023-Q2".
func ByQuarter(t time.Time) (string, bool) {
	return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1), true
}

// ByMonth buckets by calendar month, e.g. "2023-06".
func ByMonth(t time.Time) (string, bool) {
	return t.Format("2006-01"), true
}

// WholePeriod puts every row in a single "all" period, producing plain
// per-borough aggregates.
func WholePeriod(time.Time) (string, bool) {
	return "all", true
}

// ByPolicyEras labels rows inside an event's window "pre-<name>" or
// "post-<name>". A boundary-date sale counts as post. Rows outside every
// window are dropped from the grouping. Windows are checked in declaration
// order; the first match wins.
func ByPolicyEras(events []config.PolicyEvent) Periodizer {
	return func(t time.Time) (string, bool) {
		for _, ev := range events {
			start := ev.Date.AddDate(0, -ev.WindowMonths, 0)
			end := ev.Date.AddDate(0, ev.WindowMonths, 0)
			if t.Before(start) || !t.Before(end) {
				continue
			}
			if t.Before(ev.Date) {
				return "pre-" + ev.Name, true
			}
			return "post-" + ev.Name, true
		}
		return "", false
	}
}

// PeriodizerFor resolves a CLI period name. Era bucketing needs the
// configured events; everything else ignores them.
func PeriodizerFor(period string, events []config.PolicyEvent) (Periodizer, error) {
	switch period {
	case "year":
		return ByYear, nil
	case "quarter":
		return ByQuarter, nil
	case "month":
		return ByMonth, nil
	case "era":
		return ByPolicyEras(events), nil
	default:
		return nil, fmt.Errorf("unknown period %q (want year, quarter, month, or era)", period)
	}
}

// Aggregate groups rows by (borough, period) and computes count, summed
// volume, and mean/median PPZFA over defined-ratio rows. The sum of bucket
// counts equals the number of rows the periodizer accepted. Buckets are
// ordered by borough display order, then period label.
func Aggregate(rows []dataset.AnnotatedTransaction, periodize Periodizer) []Bucket {
	type key struct {
		borough dataset.Borough
		period  string
	}

	groups := make(map[key][]dataset.AnnotatedTransaction)
	for _, row := range rows {
		label, ok := periodize(row.SaleDate)
		if !ok {
			continue
		}
		k := key{borough: row.Borough, period: label}
		groups[k] = append(groups[k], row)
	}

	buckets := make([]Bucket, 0, len(groups))
	for k, members := range groups {
		buckets = append(buckets, Bucket{
			Borough: k.borough,
			Period:  k.period,
			Stats:   computeStats(members),
		})
	}

	order := make(map[dataset.Borough]int, len(dataset.Boroughs))
	for i, b := range dataset.Boroughs {
		order[b] = i
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Borough != buckets[j].Borough {
			return order[buckets[i].Borough] < order[buckets[j].Borough]
		}
		return buckets[i].Period < buckets[j].Period
	})

	return buckets
}

// GroupByClass aggregates rows under a derived classification. Rows for
// which classify returns ok=false are left out entirely. Buckets are
// ordered by label.
func GroupByClass(rows []dataset.AnnotatedTransaction, classify func(dataset.AnnotatedTransaction) (string, bool)) []ClassBucket {
	groups := make(map[string][]dataset.AnnotatedTransaction)
	for _, row := range rows {
		label, ok := classify(row)
		if !ok {
			continue
		}
		groups[label] = append(groups[label], row)
	}

	buckets := make([]ClassBucket, 0, len(groups))
	for label, members := range groups {
		buckets = append(buckets, ClassBucket{
			Label: label,
			Stats: computeStats(members),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Label < buckets[j].Label
	})

	return buckets
}

func computeStats(rows []dataset.AnnotatedTransaction) Stats {
	stats := Stats{Count: len(rows)}

	var ratios []float64
	for _, row := range rows {
		stats.TotalVolume += row.SalePrice
		if row.PPZFA != nil {
			ratios = append(ratios, *row.PPZFA)
		}
	}

	stats.MeanPPZFA = Mean(ratios)
	stats.MedianPPZFA = Median(ratios)
	return stats
}

// Mean returns the arithmetic mean, or nil for an empty slice.
func Mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return ptr(sum / float64(len(xs)))
}

// Median returns the median, or nil for an empty slice. An even count
// averages the two middle values.
func Median(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return ptr(sorted[mid])
	}
	return ptr((sorted[mid-1] + sorted[mid]) / 2)
}

// DefinedRatios extracts the defined PPZFA values from rows.
func DefinedRatios(rows []dataset.AnnotatedTransaction) []float64 {
	var ratios []float64
	for _, row := range rows {
		if row.PPZFA != nil {
			ratios = append(ratios, *row.PPZFA)
		}
	}
	return ratios
}
