// Package output renders analysis results as terminal tables.
//
// All rendering uses ASCII layout with ANSI color for premium/discount
// signs. Color is emitted only when stdout is a TTY and NO_COLOR is unset;
// piped output stays plain. Undefined values render as an em dash, never
// as zero.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/panithi-t/nyc-development-land-analysis/internal/market"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderBucketTable renders (borough, period) aggregates.
func RenderBucketTable(buckets []market.Bucket) string {
	if len(buckets) == 0 {
		return "No transactions in any bucket.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-15s %-22s %8s %14s %12s %12s\n",
		"Borough", "Period", "Count", "Volume", "Mean PPZFA", "Med PPZFA"))
	sb.WriteString(strings.Repeat("─", 88))
	sb.WriteString("\n")

	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("%-15s %-22s %8d %14s %12s %12s\n",
			truncate(string(b.Borough), 15),
			truncate(b.Period, 22),
			b.Count,
			FormatMoney(b.TotalVolume),
			FormatRatio(b.MeanPPZFA),
			FormatRatio(b.MedianPPZFA)))
	}

	return sb.String()
}

// RenderClassTable renders classification aggregates (density, frontage,
// Sliver Law) under the given heading.
func RenderClassTable(heading string, buckets []market.ClassBucket) string {
	var sb strings.Builder
	sb.WriteString(heading + "\n")
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	if len(buckets) == 0 {
		sb.WriteString("No qualifying transactions.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-20s %8s %14s %12s %12s\n",
		"Class", "Count", "Volume", "Mean PPZFA", "Med PPZFA"))
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("%-20s %8d %14s %12s %12s\n",
			truncate(b.Label, 20),
			b.Count,
			FormatMoney(b.TotalVolume),
			FormatRatio(b.MeanPPZFA),
			FormatRatio(b.MedianPPZFA)))
	}

	return sb.String()
}

// RenderPremiumTable renders premium/discount results against the run
// baseline. Premiums show green, discounts red.
func RenderPremiumTable(results []market.PremiumResult) string {
	if len(results) == 0 {
		return "No premium results.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-28s %12s %12s %12s\n",
		"Subject", "PPZFA", "Baseline", "Premium"))
	sb.WriteString(strings.Repeat("─", 68))
	sb.WriteString("\n")

	for _, r := range results {
		premium := FormatPercent(r.PremiumPercent)
		switch {
		case r.PremiumPercent == nil:
			premium = colorize(colorGray, premium)
		case *r.PremiumPercent >= 0:
			premium = colorize(colorGreen, premium)
		default:
			premium = colorize(colorRed, premium)
		}

		sb.WriteString(fmt.Sprintf("%-28s %12s %12s %12s\n",
			truncate(r.Subject, 28),
			FormatRatio(r.SubjectPPZFA),
			FormatRatio(r.BaselinePPZFA),
			premium))
	}

	return sb.String()
}

// RenderLagTable renders rate-lag correlations.
func RenderLagTable(corrs []market.LagCorrelation) string {
	if len(corrs) == 0 {
		return "No lag correlations computed.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-10s %18s %18s\n",
		"Lag", "Rate vs PPZFA", "Rate vs Volume"))
	sb.WriteString(strings.Repeat("─", 48))
	sb.WriteString("\n")

	for _, c := range corrs {
		sb.WriteString(fmt.Sprintf("%-10s %18s %18s\n",
			fmt.Sprintf("%dM", c.LagMonths),
			FormatCorrelation(c.RatePPZFA),
			FormatCorrelation(c.RateVolume)))
	}

	return sb.String()
}

// RenderImpactTable renders policy-event pre/post comparisons.
func RenderImpactTable(impacts []market.EventImpact) string {
	if len(impacts) == 0 {
		return "No policy events configured.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-22s %10s %10s %12s %12s %12s %12s\n",
		"Event", "Pre N", "Post N", "Pre PPZFA", "Post PPZFA", "PPZFA Chg", "Volume Chg"))
	sb.WriteString(strings.Repeat("─", 96))
	sb.WriteString("\n")

	for _, im := range impacts {
		sb.WriteString(fmt.Sprintf("%-22s %10d %10d %12s %12s %12s %12s\n",
			truncate(im.Event, 22),
			im.PreCount,
			im.PostCount,
			FormatRatio(im.PreMeanPPZFA),
			FormatRatio(im.PostMeanPPZFA),
			FormatPercent(im.PPZFAChangePercent),
			FormatPercent(im.VolumeChangePercent)))
	}

	return sb.String()
}

// RenderBoroughResponseTable renders per-borough rate sensitivity.
func RenderBoroughResponseTable(responses []market.BoroughResponse) string {
	if len(responses) == 0 {
		return "No borough data.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-15s %12s %18s %12s\n",
		"Borough", "Mean PPZFA", "Rate Corr", "Premium"))
	sb.WriteString(strings.Repeat("─", 62))
	sb.WriteString("\n")

	for _, r := range responses {
		sb.WriteString(fmt.Sprintf("%-15s %12s %18s %12s\n",
			truncate(string(r.Borough), 15),
			FormatRatio(r.MeanPPZFA),
			FormatCorrelation(r.RatePPZFACorrelation),
			FormatPercent(r.PremiumPercent)))
	}

	return sb.String()
}

// FormatMoney renders a dollar amount compactly ($1.25B, $35.0M, $420K).
func FormatMoney(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatRatio renders an optional PPZFA value, em dash when undefined.
func FormatRatio(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("$%.2f", *v)
}

// FormatPercent renders an optional signed percentage, em dash when
// undefined.
func FormatPercent(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

// FormatCorrelation renders an optional correlation coefficient.
func FormatCorrelation(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.3f", *v)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
