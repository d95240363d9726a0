// Package pipeline orchestrates one import-and-build pass: locate files,
// parse (or reuse cached) tables, import glue links, run the timeline
// builder.
package pipeline

import (
	"fmt"

	"github.com/ordersight/ordersight/internal/core/glue"
	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/core/timeline"
	"github.com/ordersight/ordersight/internal/data/cache"
	"github.com/ordersight/ordersight/internal/data/parser"
	"github.com/ordersight/ordersight/internal/data/scanner"
	"github.com/ordersight/ordersight/internal/util"
)

// Config selects the input files for a build. Explicit file lists and the
// scanned data directory are merged.
type Config struct {
	SalesFiles    []string
	PurchaseFiles []string
	GlueFiles     []string
	DataDir       string
	CacheDir      string
	Concurrency   int
	UseCache      bool
}

// Dataset is everything the builder consumes, plus import diagnostics.
type Dataset struct {
	Sales     []model.RawRow
	Purchases []model.RawRow
	Links     []model.GlueLink
	GlueDiags []glue.Diagnostics
}

// Pipeline loads datasets and produces timeline states.
type Pipeline struct {
	config *Config
	parser *parser.Parser
	cache  *cache.FileCache
}

// New creates a pipeline. The cache layer is optional and only set up when
// the config enables it.
func New(config *Config) (*Pipeline, error) {
	p := &Pipeline{
		config: config,
		parser: parser.NewParser(config.Concurrency),
	}
	if config.UseCache && config.CacheDir != "" {
		fileCache, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("cache init: %w", err)
		}
		p.cache = fileCache
	}
	return p, nil
}

// InputFiles resolves the full per-kind file lists: explicit flags first,
// then whatever the data directory scan classifies.
func (p *Pipeline) InputFiles() (map[scanner.DatasetKind][]string, error) {
	files := map[scanner.DatasetKind][]string{
		scanner.DatasetSales:     append([]string(nil), p.config.SalesFiles...),
		scanner.DatasetPurchases: append([]string(nil), p.config.PurchaseFiles...),
		scanner.DatasetGlue:      append([]string(nil), p.config.GlueFiles...),
	}

	if p.config.DataDir != "" {
		scanned, err := scanner.NewFileScanner(p.config.DataDir).ScanClassified()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.config.DataDir, err)
		}
		for kind, paths := range scanned {
			files[kind] = append(files[kind], paths...)
		}
	}

	return files, nil
}

// AllPaths flattens the resolved input files, for setting up a watcher.
func (p *Pipeline) AllPaths() ([]string, error) {
	files, err := p.InputFiles()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, kind := range []scanner.DatasetKind{scanner.DatasetSales, scanner.DatasetPurchases, scanner.DatasetGlue} {
		paths = append(paths, files[kind]...)
	}
	return paths, nil
}

// Load parses every input file and imports the glue links.
func (p *Pipeline) Load() (*Dataset, error) {
	files, err := p.InputFiles()
	if err != nil {
		return nil, err
	}

	dataset := &Dataset{}

	for _, path := range files[scanner.DatasetSales] {
		table, err := p.loadTable(path)
		if err != nil {
			return nil, err
		}
		dataset.Sales = append(dataset.Sales, table.Rows...)
	}

	for _, path := range files[scanner.DatasetPurchases] {
		table, err := p.loadTable(path)
		if err != nil {
			return nil, err
		}
		dataset.Purchases = append(dataset.Purchases, table.Rows...)
	}

	for _, path := range files[scanner.DatasetGlue] {
		table, err := p.loadTable(path)
		if err != nil {
			return nil, err
		}
		result, err := glue.Import(table.Headers, table.Rows)
		if err != nil {
			return nil, fmt.Errorf("glue file %s: %w", path, err)
		}
		dataset.Links = append(dataset.Links, result.Links...)
		dataset.GlueDiags = append(dataset.GlueDiags, result.Diagnostics)
	}

	util.LogInfo(fmt.Sprintf("Loaded %d sales rows, %d purchase rows, %d glue links",
		len(dataset.Sales), len(dataset.Purchases), len(dataset.Links)))

	return dataset, nil
}

// Build runs a full load and rebuild, returning a fresh timeline state. On
// error no state is returned, so the caller's previous state stays intact.
func (p *Pipeline) Build() (*model.TimelineState, error) {
	dataset, err := p.Load()
	if err != nil {
		return nil, err
	}
	return timeline.Build(dataset.Sales, dataset.Purchases, dataset.Links), nil
}

// Invalidate drops memoized and cached rows for a changed file.
func (p *Pipeline) Invalidate(path string) {
	p.parser.Invalidate(path)
}

// ClearCache wipes the on-disk parse cache.
func (p *Pipeline) ClearCache() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Clear()
}

func (p *Pipeline) loadTable(path string) (*parser.Table, error) {
	if p.cache != nil {
		if result := p.cache.Get(path); result.Found {
			util.LogDebug(fmt.Sprintf("Cache hit: %s", path))
			return result.Table, nil
		}
	}

	table, err := p.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(path, table); err != nil {
			util.LogWarn(fmt.Sprintf("Cache write failed for %s: %v", path, err))
		}
	}
	return table, nil
}
