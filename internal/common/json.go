package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteJSON writes v as indented JSON to w.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFile writes v as indented JSON to path.
func WriteJSONFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return fmt.Errorf("error creating JSON file: %w", err)
	}
	if err := WriteJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return f.Close()
}
