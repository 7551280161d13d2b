package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted in transaction and rate files. The source exports
// use US-style dates; hand-edited files tend to use ISO.
var dateLayouts = []string{"1/2/2006", "2006-01-02", "01/02/2006"}

// LoadTransactions reads the transactions CSV at path. Column positions are
// resolved from the header row, case-insensitively, so extra metadata
// columns are tolerated and optional ones (neighborhood, zoning, frontage)
// are picked up when present. Malformed rows are skipped and counted in the
// returned LoadReport; a missing file or unusable header is fatal.
//
// The returned slice contains no duplicate IDs: the first occurrence wins.
func LoadTransactions(path string) ([]Transaction, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open transactions file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, LoadReport{}, fmt.Errorf("%s: missing header row", path)
	}

	cols := indexColumns(records[0])
	idCol, err := cols.require("id")
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}
	boroughCol, err := cols.require("borough")
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}
	dateCol, err := cols.requireAny("sale_date", "date")
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}
	priceCol, err := cols.requireAny("sale_price", "price")
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}
	zfaCol, err := cols.requireAny("zoning_floor_area", "base_zfa")
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}

	// Optional metadata.
	neighborhoodCol := cols.lookup("neighborhood")
	zoningCol := cols.lookupAny("zoning", "zoning_districts", "zoning_district")
	frontageCol := cols.lookupAny("lot_frontage", "frontage")

	var (
		report LoadReport
		out    []Transaction
		seen   = make(map[string]bool)
	)

	for _, rec := range records[1:] {
		id := strings.TrimSpace(cell(rec, idCol))
		if id == "" || seen[id] {
			report.Skipped++
			continue
		}

		borough, err := ParseBorough(cell(rec, boroughCol))
		if err != nil {
			report.Skipped++
			continue
		}

		date, err := parseDate(cell(rec, dateCol))
		if err != nil {
			report.Skipped++
			continue
		}

		price, err := parseMoney(cell(rec, priceCol))
		if err != nil {
			report.Skipped++
			continue
		}

		tx := Transaction{
			ID:        id,
			Borough:   borough,
			SaleDate:  date,
			SalePrice: price,
		}

		// A bad or non-positive floor area leaves PPZFA undefined but does
		// not disqualify the row.
		if zfa, err := parseMoney(cell(rec, zfaCol)); err == nil {
			tx.ZoningFloorArea = zfa
			if zfa > 0 {
				ratio := price / zfa
				tx.PPZFA = &ratio
			}
		}

		if neighborhoodCol >= 0 {
			tx.Neighborhood = strings.TrimSpace(cell(rec, neighborhoodCol))
		}
		if zoningCol >= 0 {
			tx.ZoningDistricts = strings.TrimSpace(cell(rec, zoningCol))
		}
		if frontageCol >= 0 {
			if ft, err := parseMoney(cell(rec, frontageCol)); err == nil && ft > 0 {
				tx.LotFrontage = &ft
			}
		}

		seen[id] = true
		out = append(out, tx)
		report.Kept++
	}

	return out, report, nil
}

// columnIndex maps normalized header names to their column positions.
type columnIndex map[string]int

// indexColumns normalizes header cells ("Sale Date" -> "sale_date") and
// records the first position of each name.
func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.ReplaceAll(name, " ", "_")
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

func (c columnIndex) lookup(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func (c columnIndex) lookupAny(names ...string) int {
	for _, n := range names {
		if i := c.lookup(n); i >= 0 {
			return i
		}
	}
	return -1
}

func (c columnIndex) require(name string) (int, error) {
	if i := c.lookup(name); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("missing required column %q", name)
}

func (c columnIndex) requireAny(names ...string) (int, error) {
	if i := c.lookupAny(names...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("missing required column %q", names[0])
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseMoney parses a numeric cell, tolerating currency formatting the
// source exports carry ("$1,250,000", "4.75%").
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(s, 64)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
