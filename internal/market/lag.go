package market

import (
	"math"
	"sort"

	"github.com/panithi-t/nyc-development-land-analysis/internal/config"
	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

// MonthlySeries rolls the merged dataset up to calendar months, sorted
// ascending. MeanRate covers only rows with a known rate; MeanPPZFA only
// rows with a defined ratio. Months with no transactions do not appear.
func MonthlySeries(rows []dataset.AnnotatedTransaction) []MonthlyPoint {
	type acc struct {
		count     int
		rateSum   float64
		rateN     int
		ratioSum  float64
		ratioN    int
		priceSum  float64
	}

	months := make(map[string]*acc)
	for _, row := range rows {
		m := row.SaleDate.Format("2006-01")
		a := months[m]
		if a == nil {
			a = &acc{}
			months[m] = a
		}
		a.count++
		a.priceSum += row.SalePrice
		if row.RateKnown {
			a.rateSum += row.Rate
			a.rateN++
		}
		if row.PPZFA != nil {
			a.ratioSum += *row.PPZFA
			a.ratioN++
		}
	}

	series := make([]MonthlyPoint, 0, len(months))
	for m, a := range months {
		p := MonthlyPoint{Month: m, Count: a.count}
		if a.count > 0 {
			p.MeanPrice = ptr(a.priceSum / float64(a.count))
		}
		if a.rateN > 0 {
			p.MeanRate = ptr(a.rateSum / float64(a.rateN))
		}
		if a.ratioN > 0 {
			p.MeanPPZFA = ptr(a.ratioSum / float64(a.ratioN))
		}
		series = append(series, p)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})

	return series
}

// LagCorrelations correlates mean PPZFA and transaction volume against the
// mean rate shifted back by each lag, positionally over the monthly series.
// Months where either side is undefined are dropped pairwise.
func LagCorrelations(series []MonthlyPoint, lags []int) []LagCorrelation {
	results := make([]LagCorrelation, 0, len(lags))
	for _, lag := range lags {
		lc := LagCorrelation{LagMonths: lag}
		if lag > 0 && lag < len(series) {
			var rates, ratios, rates2, volumes []float64
			for i := lag; i < len(series); i++ {
				lagged := series[i-lag].MeanRate
				if lagged == nil {
					continue
				}
				if series[i].MeanPPZFA != nil {
					rates = append(rates, *lagged)
					ratios = append(ratios, *series[i].MeanPPZFA)
				}
				rates2 = append(rates2, *lagged)
				volumes = append(volumes, float64(series[i].Count))
			}
			lc.RatePPZFA = Pearson(rates, ratios)
			lc.RateVolume = Pearson(rates2, volumes)
		}
		results = append(results, lc)
	}
	return results
}

// Pearson returns the sample correlation coefficient of the paired slices,
// or nil when there are fewer than two pairs or either side has zero
// variance.
func Pearson(xs, ys []float64) *float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nil
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return nil
	}
	return ptr(cov / math.Sqrt(varX*varY))
}

// PolicyImpact compares the event's pre and post windows: mean PPZFA,
// transaction counts, and percent changes. Change values stay nil when a
// window is empty or its mean is undefined.
func PolicyImpact(rows []dataset.AnnotatedTransaction, event config.PolicyEvent) EventImpact {
	start := event.Date.AddDate(0, -event.WindowMonths, 0)
	end := event.Date.AddDate(0, event.WindowMonths, 0)

	var pre, post []dataset.AnnotatedTransaction
	for _, row := range rows {
		switch {
		case !row.SaleDate.Before(start) && row.SaleDate.Before(event.Date):
			pre = append(pre, row)
		case !row.SaleDate.Before(event.Date) && row.SaleDate.Before(end):
			post = append(post, row)
		}
	}

	impact := EventImpact{
		Event:         event.Name,
		PreCount:      len(pre),
		PostCount:     len(post),
		PreMeanPPZFA:  Mean(DefinedRatios(pre)),
		PostMeanPPZFA: Mean(DefinedRatios(post)),
	}

	if impact.PreMeanPPZFA != nil && impact.PostMeanPPZFA != nil && *impact.PreMeanPPZFA != 0 {
		impact.PPZFAChangePercent = ptr((*impact.PostMeanPPZFA / *impact.PreMeanPPZFA - 1) * 100)
	}
	if len(pre) > 0 && len(post) > 0 {
		impact.VolumeChangePercent = ptr((float64(len(post))/float64(len(pre)) - 1) * 100)
	}

	return impact
}

// BoroughResponses computes each borough's lagged rate/PPZFA correlation
// and its premium against the baseline. Boroughs with no transactions are
// omitted; boroughs appear in display order.
func BoroughResponses(rows []dataset.AnnotatedTransaction, baseline *float64, lagMonths int) []BoroughResponse {
	byBorough := make(map[dataset.Borough][]dataset.AnnotatedTransaction)
	for _, row := range rows {
		byBorough[row.Borough] = append(byBorough[row.Borough], row)
	}

	var responses []BoroughResponse
	for _, borough := range dataset.Boroughs {
		members := byBorough[borough]
		if len(members) == 0 {
			continue
		}

		resp := BoroughResponse{
			Borough:   borough,
			MeanPPZFA: Mean(DefinedRatios(members)),
		}
		if corrs := LagCorrelations(MonthlySeries(members), []int{lagMonths}); len(corrs) == 1 {
			resp.RatePPZFACorrelation = corrs[0].RatePPZFA
		}
		resp.PremiumPercent = Premium(string(borough), resp.MeanPPZFA, baseline).PremiumPercent

		responses = append(responses, resp)
	}
	return responses
}
