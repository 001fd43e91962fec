package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoSourceFiles is returned when a directory holds no sales exports.
var ErrNoSourceFiles = errors.New("no sales exports found")

// sourceExtensions are the extensions treated as sales exports.
var sourceExtensions = []string{".csv", ".txt"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations relative to a base path.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSourceFiles lists the non-empty sales exports of dir, oldest first.
// Files modified at the same instant are ordered by name.
func (d *Discovery) FindSourceFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsSourceFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		found = append(found, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].ModTime.Equal(found[j].ModTime) {
			return found[i].Name < found[j].Name
		}
		return found[i].ModTime.Before(found[j].ModTime)
	})
	return found, nil
}

// FindFilesByPattern finds the sales exports of dir matching a glob pattern.
func (d *Discovery) FindFilesByPattern(dir, pattern string) ([]FileInfo, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	all, err := d.FindSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	var matched []FileInfo
	for _, file := range all {
		if ok, _ := filepath.Match(pattern, file.Name); ok {
			matched = append(matched, file)
		}
	}
	return matched, nil
}

// IsSourceFile reports whether name carries a sales export extension.
func IsSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range sourceExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// GetLatestFile returns the most recently modified file from a list.
// Ties go to the later entry so sorted input yields its last element.
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if !file.ModTime.Before(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

// FilterFilesByDateRange keeps the files modified within [start, end).
func FilterFilesByDateRange(files []FileInfo, start, end time.Time) []FileInfo {
	var filtered []FileInfo
	for _, file := range files {
		if !file.ModTime.Before(start) && file.ModTime.Before(end) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// ResolveSource returns path unchanged unless it names a directory, in
// which case the most recently modified export inside it is returned.
func ResolveSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		// Missing and regular paths are reported by source validation.
		return path, nil
	}

	found, err := NewDiscovery("").FindSourceFiles(path)
	if err != nil {
		return "", err
	}
	latest, ok := GetLatestFile(found)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoSourceFiles, path)
	}
	return latest.Path, nil
}
