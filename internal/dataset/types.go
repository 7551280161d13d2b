// Package dataset loads and joins the two flat CSV inputs: development-site
// transactions and the federal rate history.
package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Canonical input file names expected inside the input directory.
const (
	RatesFileName        = "FED-RATES.csv"
	TransactionsFileName = "TRANSACTIONS-PT.csv"
)

// Borough identifies one of the five NYC boroughs.
type Borough string

const (
	Manhattan    Borough = "Manhattan"
	Brooklyn     Borough = "Brooklyn"
	Queens       Borough = "Queens"
	Bronx        Borough = "Bronx"
	StatenIsland Borough = "Staten Island"
)

// Boroughs lists all boroughs in display order.
var Boroughs = []Borough{Manhattan, Brooklyn, Queens, Bronx, StatenIsland}

// ParseBorough normalizes a raw borough cell to a Borough value.
// Matching is case-insensitive and tolerant of spacing ("STATEN ISLAND",
// "statenisland"). Returns an error for unrecognized values.
func ParseBorough(s string) (Borough, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch key {
	case "manhattan":
		return Manhattan, nil
	case "brooklyn":
		return Brooklyn, nil
	case "queens":
		return Queens, nil
	case "bronx", "thebronx":
		return Bronx, nil
	case "statenisland":
		return StatenIsland, nil
	default:
		return "", fmt.Errorf("unknown borough %q", s)
	}
}

// Transaction is one development-site sale. PPZFA is derived at load time
// and is nil when ZoningFloorArea is not positive; such rows still count
// toward transaction totals but are excluded from ratio aggregates.
type Transaction struct {
	ID              string
	Borough         Borough
	SaleDate        time.Time
	SalePrice       float64
	ZoningFloorArea float64
	PPZFA           *float64

	// Optional metadata columns, carried through when present in the CSV.
	Neighborhood    string
	ZoningDistricts string
	LotFrontage     *float64
}

// RateObservation is one federal rate change: the rate in effect from
// EffectiveDate until the next observation.
type RateObservation struct {
	EffectiveDate time.Time
	RatePercent   float64
}

// AnnotatedTransaction is a transaction joined with the prevailing federal
// rate as of its sale date. RateKnown is false when the sale predates every
// rate observation; such rows are excluded from rate statistics.
type AnnotatedTransaction struct {
	Transaction
	Rate      float64
	RateKnown bool
}

// LoadReport counts the outcome of parsing one CSV input.
type LoadReport struct {
	Kept    int
	Skipped int
}

func (r LoadReport) String() string {
	return fmt.Sprintf("%d rows kept, %d skipped", r.Kept, r.Skipped)
}
