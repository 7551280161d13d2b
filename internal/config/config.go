// Package config provides run configuration for the analysis pipeline.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default policy-era boundaries. These are domain parameters, not
// algorithmic choices; an events file overrides them.
const (
	default421aExpiration = "2022-06-15"
	defaultCovidOutbreak  = "2020-03-01"
)

// PolicyEvent is a named regulatory boundary. Transactions within
// WindowMonths before and after the date form the pre/post comparison
// windows, and the same boundary drives era-based bucketing.
type PolicyEvent struct {
	Name         string
	Date         time.Time
	WindowMonths int
}

// Config holds one analysis run's parameters.
type Config struct {
	InputDir  string
	OutputDir string

	// BaselinePPZFA overrides the derived baseline (median PPZFA of the
	// merged dataset) when non-nil.
	BaselinePPZFA *float64

	Events     []PolicyEvent
	LagWindows []int
}

// Load reads an optional .env file and environment variables and returns a
// Config with defaults filled in. Flags layered on top by the CLI take
// precedence over everything here.
func Load() *Config {
	// Missing .env is fine; system env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		InputDir:   getEnv("NYCLAND_INPUT_DIR", "."),
		OutputDir:  getEnv("NYCLAND_OUTPUT_DIR", "output"),
		Events:     DefaultEvents(),
		LagWindows: []int{3, 6},
	}

	if v := os.Getenv("NYCLAND_BASELINE_PPZFA"); v != "" {
		if b, err := strconv.ParseFloat(v, 64); err == nil && b > 0 {
			cfg.BaselinePPZFA = &b
		}
	}

	return cfg
}

// DefaultEvents returns the built-in policy-era boundaries.
func DefaultEvents() []PolicyEvent {
	expiration, _ := time.Parse("2006-01-02", default421aExpiration)
	covid, _ := time.Parse("2006-01-02", defaultCovidOutbreak)
	return []PolicyEvent{
		{Name: "421a_expiration", Date: expiration, WindowMonths: 6},
		{Name: "covid_outbreak", Date: covid, WindowMonths: 6},
	}
}

// LoadEvents reads a policy-events file. Each line declares one event as
// "name=YYYY-MM-DD" with an optional ",months" window suffix, e.g.
//
//	421a_expiration=2022-06-15
//	covid_outbreak=2020-03-01,12
//
// Blank lines and #-comments are skipped; malformed lines are an error so a
// typo in a cutoff date never silently changes the analysis.
func LoadEvents(path string) ([]PolicyEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	var events []PolicyEvent
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			return nil, fmt.Errorf("%s:%d: expected name=date", path, lineNo)
		}

		name := strings.TrimSpace(line[:idx])
		rest := strings.TrimSpace(line[idx+1:])
		window := 6

		if comma := strings.IndexByte(rest, ','); comma >= 0 {
			months, err := strconv.Atoi(strings.TrimSpace(rest[comma+1:]))
			if err != nil || months <= 0 {
				return nil, fmt.Errorf("%s:%d: invalid window months", path, lineNo)
			}
			window = months
			rest = strings.TrimSpace(rest[:comma])
		}

		date, err := time.Parse("2006-01-02", rest)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid date %q", path, lineNo, rest)
		}

		events = append(events, PolicyEvent{Name: name, Date: date, WindowMonths: window})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("%s: no events declared", path)
	}
	return events, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
