// Package cache persists parsed import tables between runs so unchanged
// exports are not re-parsed on every invocation.
package cache

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/ordersight/ordersight/internal/data/parser"
	"github.com/ordersight/ordersight/internal/util"
)

// MissReason explains why a cache lookup did not produce usable data.
type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonNotFound
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
)

// Entry is one cached parse result plus the file attributes it was valid for.
type Entry struct {
	FilePath           string        `json:"filePath"`
	Table              *parser.Table `json:"table"`
	LastModified       int64         `json:"lastModified"`
	FileSize           int64         `json:"fileSize"`
	Inode              uint64        `json:"inode"`
	ContentFingerprint string        `json:"contentFingerprint"`
}

// Result is the outcome of a cache lookup.
type Result struct {
	Table      *parser.Table
	Found      bool
	MissReason MissReason
}

// FileCache keeps entries in memory and mirrors them to a cache directory.
type FileCache struct {
	baseDir string
	mu      sync.RWMutex
	entries map[string]*Entry // keyed by source file path
}

// NewFileCache opens (creating if needed) a cache rooted at baseDir.
func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{
		baseDir: baseDir,
		entries: make(map[string]*Entry),
	}, nil
}

// cacheFile maps a source path to its on-disk cache file.
func (c *FileCache) cacheFile(sourcePath string) string {
	sum := crc32.ChecksumIEEE([]byte(sourcePath))
	name := fmt.Sprintf("%s-%08x.json", filepath.Base(sourcePath), sum)
	return filepath.Join(c.baseDir, name)
}

// Get returns the cached table for sourcePath when the file on disk still
// matches the attributes recorded at Set time.
func (c *FileCache) Get(sourcePath string) Result {
	c.mu.RLock()
	entry, ok := c.entries[sourcePath]
	c.mu.RUnlock()

	if !ok {
		loaded, err := c.loadFromDisk(sourcePath)
		if err != nil {
			return Result{MissReason: MissReasonNotFound}
		}
		entry = loaded
		c.mu.Lock()
		c.entries[sourcePath] = entry
		c.mu.Unlock()
	}

	if reason := c.validate(entry); reason != MissReasonNone {
		util.LogDebug(fmt.Sprintf("Cache miss for %s: reason=%d", sourcePath, reason))
		c.mu.Lock()
		delete(c.entries, sourcePath)
		c.mu.Unlock()
		return Result{MissReason: reason}
	}

	return Result{Table: entry.Table, Found: true}
}

// Set records a fresh parse result for sourcePath and writes it through to
// disk.
func (c *FileCache) Set(sourcePath string, table *parser.Table) error {
	info, err := util.GetFileInfo(sourcePath)
	if err != nil {
		return err
	}
	fingerprint, err := util.CalculateFileFingerprint(sourcePath)
	if err != nil {
		return err
	}

	entry := &Entry{
		FilePath:           sourcePath,
		Table:              table,
		LastModified:       info.ModTime,
		FileSize:           info.Size,
		Inode:              info.Inode,
		ContentFingerprint: fingerprint,
	}

	c.mu.Lock()
	c.entries[sourcePath] = entry
	c.mu.Unlock()

	data, err := sonic.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.cacheFile(sourcePath), data, 0644)
}

// Clear removes every cache file and resets the memory layer.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()

	dirEntries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, de := range dirEntries {
		if !de.IsDir() && filepath.Ext(de.Name()) == ".json" {
			if err := os.Remove(filepath.Join(c.baseDir, de.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *FileCache) loadFromDisk(sourcePath string) (*Entry, error) {
	data, err := os.ReadFile(c.cacheFile(sourcePath))
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// validate compares the entry's recorded attributes against the file as it
// exists now. Fingerprint runs last because it reads the file.
func (c *FileCache) validate(entry *Entry) MissReason {
	info, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		return MissReasonError
	}
	if info.Inode != entry.Inode {
		return MissReasonInode
	}
	if info.Size != entry.FileSize {
		return MissReasonSize
	}
	if info.ModTime != entry.LastModified {
		return MissReasonModTime
	}
	fingerprint, err := util.CalculateFileFingerprint(entry.FilePath)
	if err != nil {
		return MissReasonError
	}
	if fingerprint != entry.ContentFingerprint {
		return MissReasonFingerprint
	}
	return MissReasonNone
}
