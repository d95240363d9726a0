// Package parser reads marketplace CSV exports into raw row tables.
package parser

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ordersight/ordersight/internal/util"
)

// Parser parses import files, memoizing per path so repeated builds within
// one run reuse parsed rows.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	memo        map[string]*Table
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File  string
	Table *Table
	Error error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		memo:        make(map[string]*Table),
	}
}

// ParseFile parses the CSV file at the given path.
func (p *Parser) ParseFile(path string) (*Table, error) {
	p.mu.Lock()
	if cached, ok := p.memo[path]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", path))

	data, err := os.ReadFile(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to read file: %s - %v", path, err))
		return nil, err
	}

	table, err := ParseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p.mu.Lock()
	p.memo[path] = table
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Parsed %s: %d columns, %d rows", path, len(table.Headers), len(table.Rows)))
	return table, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of
// per-file results. The channel is closed once every file finished.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, p.concurrency)
	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			table, err := p.ParseFile(f)
			results <- ParseResult{File: f, Table: table, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Parsed %d files in %v", len(files), time.Since(start)))
	}()

	return results
}

// Invalidate drops the memo entry for a path, forcing a re-parse. Used when
// the watcher reports a file change.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.memo, path)
	p.mu.Unlock()
}
