// Package market computes descriptive statistics over annotated
// transactions: borough/period aggregates, baseline premiums, rate-lag
// correlations, policy-event impacts, and zoning classifications.
//
// All functions are pure and single-pass over their inputs. Undefined
// values (empty buckets, too-short series) are represented as nil *float64,
// never as zero, so downstream consumers can tell "no data" from "flat".
package market

import (
	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

// Stats holds the per-group aggregate measures shared by every grouping.
// MeanPPZFA and MedianPPZFA cover only rows with a defined ratio and are
// nil when no such rows exist.
type Stats struct {
	Count       int
	TotalVolume float64
	MeanPPZFA   *float64
	MedianPPZFA *float64
}

// Bucket is one (borough, period) aggregate.
type Bucket struct {
	Borough dataset.Borough
	Period  string
	Stats
}

// ClassBucket is one aggregate over a derived classification (zoning
// density, frontage band, Sliver Law applicability).
type ClassBucket struct {
	Label string
	Stats
}

// PremiumResult is a subject's percentage deviation from the baseline
// PPZFA. PremiumPercent is nil when either side is undefined; positive
// means a premium over baseline, negative a discount.
type PremiumResult struct {
	Subject        string
	BaselinePPZFA  *float64
	SubjectPPZFA   *float64
	PremiumPercent *float64
}

// MonthlyPoint is one calendar month of the merged dataset.
type MonthlyPoint struct {
	Month     string // "2023-06"
	Count     int
	MeanRate  *float64
	MeanPPZFA *float64
	MeanPrice *float64
}

// LagCorrelation holds the Pearson correlations of mean PPZFA and of
// transaction volume against the mean rate shifted by LagMonths.
type LagCorrelation struct {
	LagMonths  int
	RatePPZFA  *float64
	RateVolume *float64
}

// EventImpact compares the windows before and after a policy boundary.
// Change percentages are nil when either window has no usable data.
type EventImpact struct {
	Event               string
	PreCount            int
	PostCount           int
	PreMeanPPZFA        *float64
	PostMeanPPZFA       *float64
	PPZFAChangePercent  *float64
	VolumeChangePercent *float64
}

// Hotspot is a neighborhood with sales priced above the hotspot PPZFA
// threshold, with the number of such sales.
type Hotspot struct {
	Borough      dataset.Borough
	Neighborhood string
	Count        int
}

// BoroughResponse summarizes one borough's rate sensitivity and its
// premium against the run baseline.
type BoroughResponse struct {
	Borough              dataset.Borough
	MeanPPZFA            *float64
	RatePPZFACorrelation *float64
	PremiumPercent       *float64
}

// ptr returns a pointer to v. Used to build defined optional values.
func ptr(v float64) *float64 {
	return &v
}
