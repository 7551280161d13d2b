package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/panithi-t/nyc-development-land-analysis/internal/config"
	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
	"github.com/panithi-t/nyc-development-land-analysis/internal/market"
	"github.com/panithi-t/nyc-development-land-analysis/internal/report"
	"github.com/panithi-t/nyc-development-land-analysis/internal/store"
)

var (
	analyzeInputDir   string
	analyzeOutputDir  string
	analyzePeriod     string
	analyzeBaseline   float64
	analyzeEventsFile string
	analyzeExportDB   bool
	analyzeQuiet      bool

	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Run the full market analysis over the input CSVs",
		Long: `Load the transaction and federal-rate datasets, join each sale with the
prevailing rate, and compute aggregates, premiums, lag correlations, and
zoning classifications. Results are written as CSV tables and chart
workbooks under the output directory.

Malformed input rows are skipped and counted, never fatal. A missing
input file or an unwritable output directory aborts the run. An empty
transaction file is not an error: it produces an empty report.

The premium baseline defaults to the median PPZFA of the merged dataset;
--baseline overrides it with a fixed benchmark. Policy-era cutoff dates are configuration, not code: override
the defaults with --eras.`,
		Example: `  # Full run with defaults (period = year)
  nycland analyze --input-dir data --output-dir output

  # Pre/post policy-era bucketing with a fixed baseline
  nycland analyze --input-dir data --period era --baseline 239.39

  # Custom policy eras and a SQLite export of the merged dataset
  nycland analyze --input-dir data --eras eras.conf --export-db`,
		RunE: runAnalyze,
	}
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputDir, "input-dir", "", "directory containing the input CSVs (default: $NYCLAND_INPUT_DIR or .)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "directory for report output (default: $NYCLAND_OUTPUT_DIR or ./output)")
	analyzeCmd.Flags().StringVar(&analyzePeriod, "period", "year", "bucketing period: year, quarter, month, or era")
	analyzeCmd.Flags().Float64Var(&analyzeBaseline, "baseline", 0, "fixed baseline PPZFA (default: median of the merged dataset)")
	analyzeCmd.Flags().StringVar(&analyzeEventsFile, "eras", "", "policy-era file overriding the built-in event boundaries")
	analyzeCmd.Flags().BoolVar(&analyzeExportDB, "export-db", false, "also export the merged dataset to market.db (SQLite)")
	analyzeCmd.Flags().BoolVar(&analyzeQuiet, "quiet", false, "suppress the console summary")

	RootCmd.AddCommand(analyzeCmd)
}

// analysisResult carries everything one pipeline run computed, in the
// order it was computed. The reporter consumes it read-only.
type analysisResult struct {
	txReport   dataset.LoadReport
	rateReport dataset.LoadReport

	rows     []dataset.AnnotatedTransaction
	baseline *float64

	buckets   []market.Bucket
	premiums  []market.PremiumResult
	responses []market.BoroughResponse

	neighborhoods    []market.ClassBucket
	hotspotThreshold *float64
	hotspots         []market.Hotspot

	series  []market.MonthlyPoint
	corrs   []market.LagCorrelation
	impacts []market.EventImpact

	density  []market.ClassBucket
	frontage []market.ClassBucket
	sliver   []market.ClassBucket

	priceOutliers []bool
	ppzfaOutliers []bool
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	result, err := runPipeline(cfg, analyzePeriod)
	if err != nil {
		return err
	}

	if err := writeReports(cfg, result, analyzeExportDB); err != nil {
		return err
	}

	if !analyzeQuiet {
		printSummary(cfg, result)
	}
	return nil
}

// buildRunConfig layers CLI flags over the environment configuration.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()

	if analyzeInputDir != "" {
		cfg.InputDir = analyzeInputDir
	}
	if analyzeOutputDir != "" {
		cfg.OutputDir = analyzeOutputDir
	}
	if cmd.Flags().Changed("baseline") {
		if analyzeBaseline <= 0 {
			return nil, fmt.Errorf("invalid baseline %v (must be positive)", analyzeBaseline)
		}
		b := analyzeBaseline
		cfg.BaselinePPZFA = &b
	}
	if analyzeEventsFile != "" {
		events, err := config.LoadEvents(analyzeEventsFile)
		if err != nil {
			return nil, err
		}
		cfg.Events = events
	}

	return cfg, nil
}

// runPipeline executes the batch analysis: load, join, aggregate, derive.
// It performs no output; reporter failures cannot corrupt its results.
func runPipeline(cfg *config.Config, period string) (*analysisResult, error) {
	periodize, err := market.PeriodizerFor(period, cfg.Events)
	if err != nil {
		return nil, err
	}

	txs, txReport, err := dataset.LoadTransactions(filepath.Join(cfg.InputDir, dataset.TransactionsFileName))
	if err != nil {
		return nil, err
	}
	rates, rateReport, err := dataset.LoadRates(filepath.Join(cfg.InputDir, dataset.RatesFileName))
	if err != nil {
		return nil, err
	}

	result := &analysisResult{
		txReport:   txReport,
		rateReport: rateReport,
		rows:       rates.Annotate(txs),
	}

	// Baseline: configured benchmark, or the merged dataset's median PPZFA.
	if cfg.BaselinePPZFA != nil {
		result.baseline = cfg.BaselinePPZFA
	} else {
		result.baseline = market.Median(market.DefinedRatios(result.rows))
	}

	result.buckets = market.Aggregate(result.rows, periodize)
	boroughTotals := market.Aggregate(result.rows, market.WholePeriod)
	result.premiums = market.Premiums(boroughTotals, result.baseline)
	result.responses = market.BoroughResponses(result.rows, result.baseline, 3)
	result.neighborhoods = market.NeighborhoodBuckets(result.rows)
	result.hotspotThreshold, result.hotspots = market.Hotspots(result.rows)

	result.series = market.MonthlySeries(result.rows)
	result.corrs = market.LagCorrelations(result.series, cfg.LagWindows)
	for _, event := range cfg.Events {
		result.impacts = append(result.impacts, market.PolicyImpact(result.rows, event))
	}

	result.density = market.DensityBuckets(result.rows)
	result.frontage = market.FrontageBuckets(result.rows)
	result.sliver = market.SliverBuckets(result.rows)

	prices := make([]*float64, len(result.rows))
	ratios := make([]*float64, len(result.rows))
	for i, row := range result.rows {
		p := row.SalePrice
		prices[i] = &p
		ratios[i] = row.PPZFA
	}
	result.priceOutliers = market.ZScoreFlags(prices, 3)
	result.ppzfaOutliers = market.ZScoreFlags(ratios, 3)

	return result, nil
}

// writeReports renders every artifact for one run. The first failure
// aborts: partially written output is better than silently missing
// categories.
func writeReports(cfg *config.Config, result *analysisResult, exportDB bool) error {
	reporter, err := report.New(cfg.OutputDir)
	if err != nil {
		return err
	}

	if err := reporter.WriteGeography(result.buckets, result.premiums, result.responses); err != nil {
		return err
	}
	if err := reporter.WriteNeighborhoods(result.neighborhoods, result.hotspotThreshold, result.hotspots); err != nil {
		return err
	}
	if err := reporter.WriteLagAnalysis(result.series, result.corrs, result.impacts); err != nil {
		return err
	}
	if err := reporter.WriteZoning(result.density, result.frontage, result.sliver, result.baseline); err != nil {
		return err
	}
	if err := reporter.WriteMergedData(result.rows, result.priceOutliers, result.ppzfaOutliers); err != nil {
		return err
	}
	if err := reporter.WritePremiumChart(result.premiums); err != nil {
		return err
	}
	if err := reporter.WriteTrendChart(result.series); err != nil {
		return err
	}

	if exportDB {
		dbPath := filepath.Join(cfg.OutputDir, "market.db")
		st, err := store.New(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.UpsertTransactions(context.Background(), result.rows); err != nil {
			return err
		}
		n, err := st.Count(context.Background())
		if err != nil {
			return err
		}
		if !analyzeQuiet {
			fmt.Printf("Exported %d rows to %s\n", n, dbPath)
		}
	}

	return nil
}
