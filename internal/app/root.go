// Package app wires the CLI command tree for nycland.
package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootCmd is the root command for nycland.
var RootCmd = &cobra.Command{
	Use:   "nycland",
	Short: "NYC development-land market statistics from flat CSV datasets",
	Long: `nycland computes descriptive market statistics for NYC development-site
transactions: price per zoning floor area (PPZFA), transaction volume,
borough premiums against a baseline, federal-rate lag correlations, and
zoning/physical classifications.

Inputs are two CSV files in the input directory:
  FED-RATES.csv        federal rate history (effective_date, rate_percent)
  TRANSACTIONS-PT.csv  development-site sales

Outputs are CSV tables and chart workbooks under category directories
(lag_analysis/, geography/, zoning/) plus merged_data.csv.

Examples:
  # Run the full analysis
  nycland analyze --input-dir data --output-dir output

  # Bucket by policy era instead of calendar year
  nycland analyze --input-dir data --period era

  # Re-run automatically whenever the input CSVs change
  nycland watch --input-dir data --output-dir output`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("nycland: NYC development-land market statistics")
		fmt.Println()
		fmt.Println("Run 'nycland analyze' to process the input datasets.")
		fmt.Println("Run 'nycland --help' for the full reference.")
		return nil
	},
}

func init() {
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}
