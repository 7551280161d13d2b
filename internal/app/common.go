package app

import (
	"fmt"

	"github.com/panithi-t/nyc-development-land-analysis/internal/config"
	"github.com/panithi-t/nyc-development-land-analysis/internal/output"
)

// printSummary renders the console view of one analysis run. The CSV and
// workbook artifacts are the canonical output; this is the at-a-glance
// version.
func printSummary(cfg *config.Config, result *analysisResult) {
	fmt.Printf("Loaded %d transactions (%d skipped), %d rate observations (%d skipped)\n",
		result.txReport.Kept, result.txReport.Skipped,
		result.rateReport.Kept, result.rateReport.Skipped)
	if result.baseline != nil {
		fmt.Printf("Baseline PPZFA: %s\n", output.FormatRatio(result.baseline))
	}
	fmt.Println()

	fmt.Print(output.RenderBucketTable(result.buckets))
	fmt.Println()
	fmt.Print(output.RenderPremiumTable(result.premiums))
	fmt.Println()
	fmt.Print(output.RenderLagTable(result.corrs))
	fmt.Println()
	fmt.Print(output.RenderImpactTable(result.impacts))
	fmt.Println()
	fmt.Print(output.RenderBoroughResponseTable(result.responses))
	fmt.Println()
	fmt.Print(output.RenderClassTable("Neighborhoods", result.neighborhoods))
	fmt.Println()
	fmt.Print(output.RenderClassTable("Zoning Density", result.density))
	fmt.Println()
	fmt.Print(output.RenderClassTable("Lot Frontage", result.frontage))
	fmt.Println()
	fmt.Print(output.RenderClassTable("Sliver Law", result.sliver))
	fmt.Println()

	fmt.Printf("Reports written to %s\n", cfg.OutputDir)
}
