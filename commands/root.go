package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ordersight/ordersight/internal/application/pipeline"
	"github.com/ordersight/ordersight/internal/core/store"
	"github.com/ordersight/ordersight/internal/data/scanner"
	"github.com/ordersight/ordersight/internal/presentation/formatter"
	"github.com/ordersight/ordersight/internal/util"
)

var (
	// Input data
	salesFiles    []string
	purchaseFiles []string
	glueFiles     []string
	dataDir       string

	// Output
	outputFormat string

	// Cache
	cacheDir string
	noCache  bool
	reset    bool

	// System and debugging
	debug   bool
	logFile string
	watch   bool

	rootCmd = &cobra.Command{
		Use:   "ordersight [flags]",
		Short: "Order timeline stitching for e-commerce sellers",
		Long: `ordersight imports CSV exports of sales and purchases from different
marketplaces, links them into unified per-order event threads using a
user-curated glue file, and reports linked orders and orphan events.

Examples:
  ordersight --sales sales.csv --purchases purchases.csv --glue glue.csv
  ordersight --dir ./exports                     # classify files by name
  ordersight --dir ./exports --output summary    # linking statistics only
  ordersight --dir ./exports --watch             # rebuild on file changes
  ordersight reconcile --dir ./exports           # fix orphans interactively`,
		RunE: runReport,
	}
)

const (
	defaultLogFile  = "~/.ordersight/logs/app.log"
	defaultCacheDir = "~/.ordersight/cache"
)

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&salesFiles, "sales", "s", nil,
		"Sales export CSV file (repeatable)")
	rootCmd.PersistentFlags().StringSliceVarP(&purchaseFiles, "purchases", "p", nil,
		"Purchase export CSV file (repeatable)")
	rootCmd.PersistentFlags().StringSliceVarP(&glueFiles, "glue", "g", nil,
		"Glue cross-reference CSV file (repeatable)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "",
		"Directory to scan for import files (classified by filename)")

	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultCacheDir,
		"Parse cache directory")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Disable the parse cache")
	rootCmd.PersistentFlags().BoolVarP(&reset, "reset", "r", false,
		"Clear the parse cache before importing")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")

	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Keep running and rebuild when import files change")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func initLogging() {
	level := "info"
	if debug {
		level = "debug"
	}
	path := expandPath(logFile)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		path = ""
	}
	if path == "" && !debug {
		// No destination; the logging helpers drop messages when
		// uninitialized.
		return
	}
	util.InitLogger(level, path, debug)
}

// newPipeline builds the import pipeline from the CLI flags.
func newPipeline() (*pipeline.Pipeline, error) {
	if len(salesFiles) == 0 && len(purchaseFiles) == 0 && len(glueFiles) == 0 && dataDir == "" {
		return nil, fmt.Errorf("no input: pass --sales/--purchases/--glue files or --dir")
	}

	config := &pipeline.Config{
		SalesFiles:    expandAll(salesFiles),
		PurchaseFiles: expandAll(purchaseFiles),
		GlueFiles:     expandAll(glueFiles),
		CacheDir:      expandPath(cacheDir),
		Concurrency:   runtime.NumCPU(),
		UseCache:      !noCache,
	}
	if dataDir != "" {
		config.DataDir = expandPath(dataDir)
	}

	p, err := pipeline.New(config)
	if err != nil {
		return nil, err
	}
	if reset {
		if err := p.ClearCache(); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
	}
	return p, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	initLogging()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	f, err := formatter.New(outputFormat)
	if err != nil {
		return err
	}

	timelineStore := store.New()
	render := func() error {
		state, err := p.Build()
		if err != nil {
			// Previous store state stays authoritative on a failed rebuild.
			return err
		}
		timelineStore.SetTimeline(state)
		return f.Format(formatter.BuildReport(timelineStore.Snapshot()))
	}

	if err := render(); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return watchAndRebuild(p, render)
}

// watchAndRebuild re-renders after every import file change. Events are
// debounced briefly because exporters write files in several chunks.
func watchAndRebuild(p *pipeline.Pipeline, render func() error) error {
	paths, err := p.AllPaths()
	if err != nil {
		return err
	}
	if dataDir != "" {
		paths = append(paths, expandPath(dataDir))
	}

	watcher, err := scanner.NewFileWatcher(paths)
	if err != nil {
		return err
	}
	defer watcher.Close()

	util.LogInfo("Watching for import file changes (Ctrl-C to stop)")

	const settle = 500 * time.Millisecond
	for ev := range watcher.Events() {
		util.LogDebug(fmt.Sprintf("File event: %s %s", ev.Operation, ev.Path))
		p.Invalidate(ev.Path)

		// Swallow the burst of events one save produces.
		deadline := time.After(settle)
	drain:
		for {
			select {
			case more, ok := <-watcher.Events():
				if !ok {
					break drain
				}
				p.Invalidate(more.Path)
			case <-deadline:
				break drain
			}
		}

		if err := render(); err != nil {
			util.LogError(fmt.Sprintf("Rebuild failed, keeping previous timeline: %v", err))
		}
	}
	return nil
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func expandAll(paths []string) []string {
	expanded := make([]string, len(paths))
	for i, p := range paths {
		expanded[i] = expandPath(p)
	}
	return expanded
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
