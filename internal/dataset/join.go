package dataset

import (
	"sort"
	"time"
)

// RateTable holds rate observations sorted ascending by effective date and
// answers "what rate was in effect on this day" lookups.
type RateTable struct {
	observations []RateObservation
}

// NewRateTable builds a table from arbitrary-order observations.
func NewRateTable(obs []RateObservation) RateTable {
	sorted := make([]RateObservation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})
	return RateTable{observations: sorted}
}

// Observations returns the sorted rate history.
func (t RateTable) Observations() []RateObservation {
	return t.observations
}

// Len returns the number of observations.
func (t RateTable) Len() int {
	return len(t.observations)
}

// RateOn returns the rate with the greatest effective date not exceeding
// date. A sale dated exactly on an effective date takes that rate. The
// second return is false when date predates every observation.
func (t RateTable) RateOn(date time.Time) (float64, bool) {
	// First index whose effective date is strictly after date; the
	// prevailing observation is the one before it.
	i := sort.Search(len(t.observations), func(i int) bool {
		return t.observations[i].EffectiveDate.After(date)
	})
	if i == 0 {
		return 0, false
	}
	return t.observations[i-1].RatePercent, true
}

// Annotate joins each transaction with the prevailing rate as of its sale
// date. Transactions predating the rate history are kept with
// RateKnown=false so they still count toward volume totals.
func (t RateTable) Annotate(txs []Transaction) []AnnotatedTransaction {
	out := make([]AnnotatedTransaction, 0, len(txs))
	for _, tx := range txs {
		rate, ok := t.RateOn(tx.SaleDate)
		out = append(out, AnnotatedTransaction{
			Transaction: tx,
			Rate:        rate,
			RateKnown:   ok,
		})
	}
	return out
}
