package market

import (
	"strings"

	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

// Density classes over residential zoning district codes.
const (
	DensityLow    = "LOW"
	DensityMedium = "MEDIUM"
	DensityHigh   = "HIGH"
	DensityOther  = "OTHER"
)

// Lot frontage bands in feet.
const (
	FrontageNarrow = "<=25 ft"
	FrontageMid    = "25-45 ft"
	FrontageWide   = ">45 ft"
)

var densityClasses = []struct {
	label     string
	districts []string
}{
	{DensityLow, []string{"R1", "R2", "R3", "R4", "R5"}},
	{DensityMedium, []string{"R6", "R7", "C2-4"}},
	{DensityHigh, []string{"R8", "R9", "R10"}},
}

// Districts where the Sliver Law (ZR §23-692) restricts tall buildings on
// narrow lots.
var sliverDistricts = []string{
	"R7-2", "R7D", "R7X", "R8", "R9", "R10",
	"C1-6", "C1-7", "C1-8", "C1-9", "C2-6", "C2-7", "C2-8",
	"C4-4D", "C4-5D", "C4-5X", "C4-6A", "C4-7A",
	"C5-1A", "C5-2A", "C6-2A", "C6-3A", "C6-3D", "C6-3X", "C6-4A", "C6-4X",
}

// DensityClass maps a zoning district string (possibly several codes
// joined with separators) to a density label. The district list is
// substring-matched against the raw cell, as the source data mixes codes
// like "R6/C2-4", and classes are checked from HIGH downward so "R10"
// cannot be claimed by LOW through its "R1" prefix.
func DensityClass(zoning string) string {
	z := strings.ToUpper(zoning)
	// HIGH before MEDIUM before LOW: "R10" contains "R1", so the densest
	// match must win.
	for i := len(densityClasses) - 1; i >= 0; i-- {
		for _, d := range densityClasses[i].districts {
			if strings.Contains(z, d) {
				return densityClasses[i].label
			}
		}
	}
	return DensityOther
}

// FrontageClass assigns a lot frontage (feet) to its band.
func FrontageClass(frontage float64) string {
	switch {
	case frontage <= 25:
		return FrontageNarrow
	case frontage <= 45:
		return FrontageMid
	default:
		return FrontageWide
	}
}

// SliverApplicable reports whether the Sliver Law restricts a lot:
// frontage under 45 feet in one of the affected districts. Returns false
// when frontage or zoning is unknown.
func SliverApplicable(zoning string, frontage *float64) bool {
	if frontage == nil || *frontage >= 45 || zoning == "" {
		return false
	}
	z := strings.ToUpper(zoning)
	for _, d := range sliverDistricts {
		if strings.Contains(z, d) {
			return true
		}
	}
	return false
}

// DensityBuckets aggregates transactions by zoning density class. Rows
// without zoning information fall into OTHER.
func DensityBuckets(rows []dataset.AnnotatedTransaction) []ClassBucket {
	return GroupByClass(rows, func(row dataset.AnnotatedTransaction) (string, bool) {
		return DensityClass(row.ZoningDistricts), true
	})
}

// FrontageBuckets aggregates transactions by lot frontage band; rows with
// no recorded frontage are left out.
func FrontageBuckets(rows []dataset.AnnotatedTransaction) []ClassBucket {
	return GroupByClass(rows, func(row dataset.AnnotatedTransaction) (string, bool) {
		if row.LotFrontage == nil {
			return "", false
		}
		return FrontageClass(*row.LotFrontage), true
	})
}

// SliverBuckets aggregates transactions by Sliver Law applicability.
func SliverBuckets(rows []dataset.AnnotatedTransaction) []ClassBucket {
	return GroupByClass(rows, func(row dataset.AnnotatedTransaction) (string, bool) {
		if SliverApplicable(row.ZoningDistricts, row.LotFrontage) {
			return "sliver-restricted", true
		}
		return "unrestricted", true
	})
}
