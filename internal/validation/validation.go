// Package validation checks command-line file arguments before any work starts.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fintracker/internal/fileutils"
)

// IsValidInputFile checks that path is an existing regular file of a kind the
// import pipeline can read.
func IsValidInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range fileutils.StatementExtensions {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported statement file %s. Supported extensions are %s",
		path, strings.Join(fileutils.StatementExtensions, ", "))
}

// IsValidOutputFormat checks that an output file name has a supported
// extension. An empty name means standard output and is valid.
func IsValidOutputFormat(path string) error {
	if path == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are '.csv', '.json'", path)
	}
}
