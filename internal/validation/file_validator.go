package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// sourceExtensions are the file extensions accepted as sales sources.
var sourceExtensions = map[string]bool{".csv": true, ".txt": true}

// FileValidator checks the sales source and the artifacts directory before
// a binary starts its work.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateSourceFile checks that path is a readable, non-empty CSV export.
func (v *FileValidator) ValidateSourceFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Sales source does not exist",
			slog.String("file", path))
		return fmt.Errorf("sales source %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat sales source",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat sales source %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Sales source is a directory",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		v.logger.Error("Sales source is empty",
			slog.String("file", path))
		return fmt.Errorf("sales source %s is empty", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !sourceExtensions[ext] {
		v.logger.Error("Sales source has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("sales source %s is not a CSV export (extension: %s)", path, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Sales source is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("sales source %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Sales source validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the artifacts directory exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Info("Output directory validated",
		slog.String("directory", dir))
	return nil
}
