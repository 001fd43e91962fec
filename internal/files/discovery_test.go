package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, dir, name, content string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestDiscovery_FindSourceFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	writeExport(t, dir, "sales_2024_02.csv", "a\n1\n", base.Add(time.Hour))
	writeExport(t, dir, "sales_2024_01.CSV", "a\n1\n", base)
	writeExport(t, dir, "notes.md", "ignore", base)
	writeExport(t, dir, "empty.csv", "", base)
	writeExport(t, dir, "legacy.txt", "a\n1\n", base.Add(-time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0755))

	found, err := NewDiscovery("").FindSourceFiles(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(found))
	for _, f := range found {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"legacy.txt", "sales_2024_01.CSV", "sales_2024_02.csv"}, names)
	assert.Equal(t, filepath.Join(dir, "legacy.txt"), found[0].Path)
	assert.Equal(t, int64(4), found[0].Size)
}

func TestDiscovery_RelativeToBasePath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "incoming"), 0755))
	writeExport(t, filepath.Join(base, "incoming"), "sales.csv", "a\n1\n", time.Now())

	found, err := NewDiscovery(base).FindSourceFiles("incoming")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(base, "incoming", "sales.csv"), found[0].Path)
}

func TestDiscovery_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery("").FindSourceFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDiscovery_FindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeExport(t, dir, "sales_2024_01.csv", "a\n1\n", now)
	writeExport(t, dir, "returns_2024_01.csv", "a\n1\n", now)

	found, err := NewDiscovery(dir).FindFilesByPattern("", "sales_*.csv")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sales_2024_01.csv", found[0].Name)

	_, err = NewDiscovery(dir).FindFilesByPattern("", "[")
	assert.Error(t, err)
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"sales.csv", true},
		{"SALES.CSV", true},
		{"sales.txt", true},
		{"sales.xlsx", false},
		{"sales", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSourceFile(tt.name))
		})
	}
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	files := []FileInfo{
		{Name: "a", ModTime: now},
		{Name: "b", ModTime: now.Add(time.Minute)},
		{Name: "c", ModTime: now.Add(time.Minute)},
	}
	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "c", latest.Name)
}

func TestFilterFilesByDateRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	files := []FileInfo{
		{Name: "before", ModTime: start.Add(-time.Second)},
		{Name: "start", ModTime: start},
		{Name: "inside", ModTime: start.AddDate(0, 0, 10)},
		{Name: "end", ModTime: end},
	}

	filtered := FilterFilesByDateRange(files, start, end)
	require.Len(t, filtered, 2)
	assert.Equal(t, "start", filtered[0].Name)
	assert.Equal(t, "inside", filtered[1].Name)
}

func TestResolveSource(t *testing.T) {
	t.Run("file passes through", func(t *testing.T) {
		path := writeExport(t, t.TempDir(), "sales.csv", "a\n1\n", time.Now())
		got, err := ResolveSource(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("missing path passes through", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.csv")
		got, err := ResolveSource(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("directory picks newest export", func(t *testing.T) {
		dir := t.TempDir()
		base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		writeExport(t, dir, "sales_2024_01.csv", "a\n1\n", base)
		newest := writeExport(t, dir, "sales_2024_02.csv", "a\n1\n", base.Add(time.Hour))

		got, err := ResolveSource(dir)
		require.NoError(t, err)
		assert.Equal(t, newest, got)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := ResolveSource(t.TempDir())
		assert.True(t, errors.Is(err, ErrNoSourceFiles))
	})
}
