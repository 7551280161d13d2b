package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

var (
	watchInputDir  string
	watchOutputDir string
	watchPeriod    string
	watchInterval  time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever the input CSVs change",
		Long: `Watch the input directory and re-run the full analysis whenever
FED-RATES.csv or TRANSACTIONS-PT.csv is created or rewritten. Editors
and download tools often emit several filesystem events per save, so
changes are debounced before a run is triggered.

A failed run (for example, a half-written CSV) is reported and the watch
continues; the next change triggers a fresh attempt. Stop with Ctrl-C.`,
		Example: `  nycland watch --input-dir data --output-dir output`,
		RunE:    runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVar(&watchInputDir, "input-dir", "", "directory containing the input CSVs (default: $NYCLAND_INPUT_DIR or .)")
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "directory for report output (default: $NYCLAND_OUTPUT_DIR or ./output)")
	watchCmd.Flags().StringVar(&watchPeriod, "period", "year", "bucketing period: year, quarter, month, or era")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "settle time before a change triggers a re-run")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	analyzeInputDir = watchInputDir
	analyzeOutputDir = watchOutputDir
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.InputDir); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.InputDir, err)
	}

	// Initial run so the output reflects the current inputs immediately.
	runOnce := func() {
		result, err := runPipeline(cfg, watchPeriod)
		if err == nil {
			err = writeReports(cfg, result, false)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			return
		}
		fmt.Printf("[%s] reports updated in %s\n", time.Now().Format("15:04:05"), cfg.OutputDir)
	}
	runOnce()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.InputDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isInputEvent(event) {
				continue
			}
			// Restart the timer on every event so a burst of writes
			// triggers a single run once the file settles.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchInterval, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case sig := <-sigCh:
			fmt.Printf("\nReceived %s, stopping\n", sig)
			return nil
		}
	}
}

// isInputEvent reports whether the event touches one of the two input
// datasets in a way that changes their contents.
func isInputEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == dataset.RatesFileName || name == dataset.TransactionsFileName
}
