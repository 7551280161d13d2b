// Package report writes analysis artifacts: per-category CSV tables, chart
// workbooks, and the merged-dataset export. It is purely presentational;
// nothing here mutates computed results.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
	"github.com/panithi-t/nyc-development-land-analysis/internal/market"
)

// Output categories, one directory per analysis type.
const (
	DirLagAnalysis = "lag_analysis"
	DirGeography   = "geography"
	DirZoning      = "zoning"
)

// Reporter writes analysis artifacts under a root output directory.
type Reporter struct {
	root string
}

// New creates the output root and its category directories. An unwritable
// destination fails here, before any computation output is produced.
func New(root string) (*Reporter, error) {
	for _, dir := range []string{root,
		filepath.Join(root, DirLagAnalysis),
		filepath.Join(root, DirGeography),
		filepath.Join(root, DirZoning),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return &Reporter{root: root}, nil
}

// Root returns the output root directory.
func (r *Reporter) Root() string {
	return r.root
}

// Path resolves a file name inside a category directory.
func (r *Reporter) Path(category, name string) string {
	return filepath.Join(r.root, category, name)
}

// WriteGeography writes the borough bucket table, premiums, and borough
// rate responses under geography/.
func (r *Reporter) WriteGeography(buckets []market.Bucket, premiums []market.PremiumResult, responses []market.BoroughResponse) error {
	rows := [][]string{{"borough", "period", "transaction_count", "total_volume", "mean_ppzfa", "median_ppzfa"}}
	for _, b := range buckets {
		rows = append(rows, []string{
			string(b.Borough),
			b.Period,
			strconv.Itoa(b.Count),
			formatFloat(b.TotalVolume, 2),
			formatOpt(b.MeanPPZFA, 4),
			formatOpt(b.MedianPPZFA, 4),
		})
	}
	if err := r.writeCSV(DirGeography, "borough_buckets.csv", rows); err != nil {
		return err
	}

	if err := r.writePremiums(DirGeography, "borough_premiums.csv", premiums); err != nil {
		return err
	}

	rows = [][]string{{"borough", "mean_ppzfa", "rate_ppzfa_correlation", "premium_percent"}}
	for _, resp := range responses {
		rows = append(rows, []string{
			string(resp.Borough),
			formatOpt(resp.MeanPPZFA, 4),
			formatOpt(resp.RatePPZFACorrelation, 4),
			formatOpt(resp.PremiumPercent, 2),
		})
	}
	return r.writeCSV(DirGeography, "borough_responses.csv", rows)
}

// WriteNeighborhoods writes the neighborhood aggregates and the hotspot
// table under geography/. The threshold column repeats the dataset-wide
// quantile cut so hotspots.csv stands on its own.
func (r *Reporter) WriteNeighborhoods(neighborhoods []market.ClassBucket, threshold *float64, hotspots []market.Hotspot) error {
	rows := [][]string{{"neighborhood", "transaction_count", "total_volume", "mean_ppzfa", "median_ppzfa"}}
	for _, b := range neighborhoods {
		rows = append(rows, []string{
			b.Label,
			strconv.Itoa(b.Count),
			formatFloat(b.TotalVolume, 2),
			formatOpt(b.MeanPPZFA, 4),
			formatOpt(b.MedianPPZFA, 4),
		})
	}
	if err := r.writeCSV(DirGeography, "neighborhoods.csv", rows); err != nil {
		return err
	}

	rows = [][]string{{"borough", "neighborhood", "sales_above_threshold", "ppzfa_threshold"}}
	for _, h := range hotspots {
		rows = append(rows, []string{
			string(h.Borough),
			h.Neighborhood,
			strconv.Itoa(h.Count),
			formatOpt(threshold, 4),
		})
	}
	return r.writeCSV(DirGeography, "hotspots.csv", rows)
}

// WriteLagAnalysis writes the monthly series, lag correlations, and
// policy-event impacts under lag_analysis/.
func (r *Reporter) WriteLagAnalysis(series []market.MonthlyPoint, corrs []market.LagCorrelation, impacts []market.EventImpact) error {
	rows := [][]string{{"month", "transaction_count", "mean_rate", "mean_ppzfa", "mean_price"}}
	for _, p := range series {
		rows = append(rows, []string{
			p.Month,
			strconv.Itoa(p.Count),
			formatOpt(p.MeanRate, 4),
			formatOpt(p.MeanPPZFA, 4),
			formatOpt(p.MeanPrice, 2),
		})
	}
	if err := r.writeCSV(DirLagAnalysis, "monthly_series.csv", rows); err != nil {
		return err
	}

	rows = [][]string{{"lag_months", "rate_ppzfa_correlation", "rate_volume_correlation"}}
	for _, c := range corrs {
		rows = append(rows, []string{
			strconv.Itoa(c.LagMonths),
			formatOpt(c.RatePPZFA, 4),
			formatOpt(c.RateVolume, 4),
		})
	}
	if err := r.writeCSV(DirLagAnalysis, "lag_correlations.csv", rows); err != nil {
		return err
	}

	rows = [][]string{{"event", "pre_count", "post_count", "pre_mean_ppzfa", "post_mean_ppzfa", "ppzfa_change_percent", "volume_change_percent"}}
	for _, im := range impacts {
		rows = append(rows, []string{
			im.Event,
			strconv.Itoa(im.PreCount),
			strconv.Itoa(im.PostCount),
			formatOpt(im.PreMeanPPZFA, 4),
			formatOpt(im.PostMeanPPZFA, 4),
			formatOpt(im.PPZFAChangePercent, 2),
			formatOpt(im.VolumeChangePercent, 2),
		})
	}
	return r.writeCSV(DirLagAnalysis, "policy_impacts.csv", rows)
}

// WriteZoning writes density, frontage, and Sliver Law aggregates with
// their premiums under zoning/.
func (r *Reporter) WriteZoning(density, frontage, sliver []market.ClassBucket, baseline *float64) error {
	files := []struct {
		name    string
		buckets []market.ClassBucket
	}{
		{"density.csv", density},
		{"frontage.csv", frontage},
		{"sliver_law.csv", sliver},
	}

	for _, f := range files {
		rows := [][]string{{"class", "transaction_count", "total_volume", "mean_ppzfa", "median_ppzfa", "premium_percent"}}
		premiums := market.ClassPremiums(f.buckets, baseline)
		for i, b := range f.buckets {
			rows = append(rows, []string{
				b.Label,
				strconv.Itoa(b.Count),
				formatFloat(b.TotalVolume, 2),
				formatOpt(b.MeanPPZFA, 4),
				formatOpt(b.MedianPPZFA, 4),
				formatOpt(premiums[i].PremiumPercent, 2),
			})
		}
		if err := r.writeCSV(DirZoning, f.name, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteMergedData writes the annotated, outlier-flagged dataset to
// merged_data.csv at the output root.
func (r *Reporter) WriteMergedData(rows []dataset.AnnotatedTransaction, priceOutlier, ppzfaOutlier []bool) error {
	records := [][]string{{
		"id", "borough", "neighborhood", "sale_date", "sale_price",
		"zoning_floor_area", "ppzfa", "zoning_districts", "lot_frontage",
		"rate_percent", "price_outlier", "ppzfa_outlier",
	}}

	for i, row := range rows {
		rate := ""
		if row.RateKnown {
			rate = formatFloat(row.Rate, 2)
		}
		records = append(records, []string{
			row.ID,
			string(row.Borough),
			row.Neighborhood,
			row.SaleDate.Format("2006-01-02"),
			formatFloat(row.SalePrice, 2),
			formatFloat(row.ZoningFloorArea, 2),
			formatOpt(row.PPZFA, 4),
			row.ZoningDistricts,
			formatOpt(row.LotFrontage, 1),
			rate,
			strconv.FormatBool(i < len(priceOutlier) && priceOutlier[i]),
			strconv.FormatBool(i < len(ppzfaOutlier) && ppzfaOutlier[i]),
		})
	}

	return r.writeCSVPath(filepath.Join(r.root, "merged_data.csv"), records)
}

func (r *Reporter) writePremiums(category, name string, premiums []market.PremiumResult) error {
	rows := [][]string{{"subject", "subject_ppzfa", "baseline_ppzfa", "premium_percent"}}
	for _, p := range premiums {
		rows = append(rows, []string{
			p.Subject,
			formatOpt(p.SubjectPPZFA, 4),
			formatOpt(p.BaselinePPZFA, 4),
			formatOpt(p.PremiumPercent, 2),
		})
	}
	return r.writeCSV(category, name, rows)
}

func (r *Reporter) writeCSV(category, name string, rows [][]string) error {
	return r.writeCSVPath(r.Path(category, name), rows)
}

func (r *Reporter) writeCSVPath(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Error()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// formatOpt renders an optional value, leaving the cell empty (not zero)
// when undefined.
func formatOpt(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
