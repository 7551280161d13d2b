package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// LoadRates reads the federal rate history CSV at path. Rows with an
// unparseable date or rate are skipped and counted. The returned table is
// sorted ascending by effective date; duplicate effective dates collapse to
// the last row seen, matching a corrected re-publication of the same change.
// Superseded duplicates count as skipped, so Kept always equals the table
// length.
func LoadRates(path string) (RateTable, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return RateTable{}, LoadReport{}, fmt.Errorf("open rates file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return RateTable{}, LoadReport{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return RateTable{}, LoadReport{}, fmt.Errorf("%s: missing header row", path)
	}

	cols := indexColumns(records[0])
	dateCol, err := cols.requireAny("effective_date", "date")
	if err != nil {
		return RateTable{}, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}
	rateCol, err := cols.requireAny("rate_percent", "new_rate_(%)", "rate")
	if err != nil {
		return RateTable{}, LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}

	var report LoadReport
	byDate := make(map[string]RateObservation)

	for _, rec := range records[1:] {
		date, err := parseDate(cell(rec, dateCol))
		if err != nil {
			report.Skipped++
			continue
		}
		rate, err := parseMoney(cell(rec, rateCol))
		if err != nil {
			report.Skipped++
			continue
		}
		key := date.Format("2006-01-02")
		if _, dup := byDate[key]; dup {
			report.Skipped++
		} else {
			report.Kept++
		}
		byDate[key] = RateObservation{
			EffectiveDate: date,
			RatePercent:   rate,
		}
	}

	obs := make([]RateObservation, 0, len(byDate))
	for _, o := range byDate {
		obs = append(obs, o)
	}
	sort.Slice(obs, func(i, j int) bool {
		return obs[i].EffectiveDate.Before(obs[j].EffectiveDate)
	})

	return RateTable{observations: obs}, report, nil
}
