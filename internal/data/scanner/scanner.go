// Package scanner locates import files and classifies them into the
// datasets the timeline builder consumes.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ordersight/ordersight/internal/util"
)

// DatasetKind names which side of the timeline a file feeds.
type DatasetKind string

const (
	DatasetSales     DatasetKind = "sales"
	DatasetPurchases DatasetKind = "purchases"
	DatasetGlue      DatasetKind = "glue"
	DatasetUnknown   DatasetKind = "unknown"
)

// Filename keywords checked in order; glue first so "glue-sales-map.csv"
// classifies as glue.
var kindKeywords = []struct {
	keyword string
	kind    DatasetKind
}{
	{"glue", DatasetGlue},
	{"link", DatasetGlue},
	{"xref", DatasetGlue},
	{"sale", DatasetSales},
	{"sold", DatasetSales},
	{"purchase", DatasetPurchases},
	{"order-report", DatasetPurchases},
	{"po-", DatasetPurchases},
}

// FileScanner walks a directory for CSV import files.
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a scanner rooted at baseDir.
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// Scan returns every .csv file under the base directory, sorted by path so
// downstream builds are deterministic.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}
		if info.IsDir() {
			dirCount++
			return nil
		}
		totalCount++
		if strings.HasSuffix(strings.ToLower(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d CSV files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}

// Classify maps a file path to the dataset it feeds, by filename keyword.
func Classify(path string) DatasetKind {
	name := strings.ToLower(filepath.Base(path))
	for _, kk := range kindKeywords {
		if strings.Contains(name, kk.keyword) {
			return kk.kind
		}
	}
	return DatasetUnknown
}

// ScanClassified scans the base directory and groups the found files by
// dataset. Unknown files are logged and skipped.
func (s *FileScanner) ScanClassified() (map[DatasetKind][]string, error) {
	files, err := s.Scan()
	if err != nil {
		return nil, err
	}

	grouped := make(map[DatasetKind][]string)
	for _, f := range files {
		kind := Classify(f)
		if kind == DatasetUnknown {
			util.LogWarn(fmt.Sprintf("Skipping unclassified import file: %s", f))
			continue
		}
		grouped[kind] = append(grouped[kind], f)
	}
	return grouped, nil
}
