package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/panithi-t/nyc-development-land-analysis/internal/market"
)

// WritePremiumChart writes geography/borough_premiums.xlsx: the premium
// data sheet with an embedded bar chart. Subjects with undefined premiums
// are listed in the sheet but omitted from the chart series.
func (r *Reporter) WritePremiumChart(premiums []market.PremiumResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Premiums"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("premium chart: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Subject")
	f.SetCellValue(sheet, "B1", "Premium %")

	row := 1
	for _, p := range premiums {
		if p.PremiumPercent == nil {
			continue
		}
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Subject)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), *p.PremiumPercent)
	}

	// Skipped rows are appended after the chart data so the series stays
	// contiguous.
	undefRow := row + 1
	for _, p := range premiums {
		if p.PremiumPercent != nil {
			continue
		}
		undefRow++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", undefRow), p.Subject)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", undefRow), "undefined")
	}

	if row > 1 {
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$1", sheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, row),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, row),
			}},
			Title:  []excelize.RichTextRun{{Text: "PPZFA premium vs baseline (%)"}},
			Legend: excelize.ChartLegend{Position: "none"},
		}
		if err := f.AddChart(sheet, "D2", chart); err != nil {
			return fmt.Errorf("premium chart: %w", err)
		}
	}

	path := r.Path(DirGeography, "borough_premiums.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// WriteTrendChart writes lag_analysis/monthly_trend.xlsx: the monthly
// series with a line chart of mean PPZFA against the prevailing rate.
func (r *Reporter) WriteTrendChart(series []market.MonthlyPoint) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Monthly"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("trend chart: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Month")
	f.SetCellValue(sheet, "B1", "Mean PPZFA")
	f.SetCellValue(sheet, "C1", "Mean Rate %")

	for i, p := range series {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Month)
		if p.MeanPPZFA != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), *p.MeanPPZFA)
		}
		if p.MeanRate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), *p.MeanRate)
		}
	}

	if len(series) > 0 {
		last := len(series) + 1
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{
				{
					Name:       fmt.Sprintf("%s!$B$1", sheet),
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
					Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, last),
				},
				{
					Name:       fmt.Sprintf("%s!$C$1", sheet),
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
					Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, last),
				},
			},
			Title:  []excelize.RichTextRun{{Text: "Monthly mean PPZFA vs federal rate"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		}
		if err := f.AddChart(sheet, "E2", chart); err != nil {
			return fmt.Errorf("trend chart: %w", err)
		}
	}

	path := r.Path(DirLagAnalysis, "monthly_trend.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
