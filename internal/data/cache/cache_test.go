package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/data/parser"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func sampleTable() *parser.Table {
	return &parser.Table{
		Headers: []string{"order-id"},
		Rows:    []model.RawRow{{"order-id": "403-1"}},
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "sales.csv", "order-id\n403-1\n")

	c, err := NewFileCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	assert.False(t, c.Get(source).Found)

	require.NoError(t, c.Set(source, sampleTable()))

	result := c.Get(source)
	require.True(t, result.Found)
	assert.Equal(t, "403-1", result.Table.Rows[0]["order-id"])
}

func TestFileCache_MissOnChangedFile(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "sales.csv", "order-id\n403-1\n")

	c, err := NewFileCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	require.NoError(t, c.Set(source, sampleTable()))

	// Appending rows changes the size, invalidating the entry.
	f, err := os.OpenFile(source, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("403-2\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	result := c.Get(source)
	assert.False(t, result.Found)
	assert.Equal(t, MissReasonSize, result.MissReason)
}

func TestFileCache_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "sales.csv", "order-id\n403-1\n")
	cacheDir := filepath.Join(dir, "cache")

	first, err := NewFileCache(cacheDir)
	require.NoError(t, err)
	require.NoError(t, first.Set(source, sampleTable()))

	// A fresh cache instance loads the entry from disk.
	second, err := NewFileCache(cacheDir)
	require.NoError(t, err)
	result := second.Get(source)
	require.True(t, result.Found)
	assert.Equal(t, "403-1", result.Table.Rows[0]["order-id"])
}

func TestFileCache_Clear(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "sales.csv", "order-id\n403-1\n")
	cacheDir := filepath.Join(dir, "cache")

	c, err := NewFileCache(cacheDir)
	require.NoError(t, err)
	require.NoError(t, c.Set(source, sampleTable()))
	require.NoError(t, c.Clear())

	assert.False(t, c.Get(source).Found)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
