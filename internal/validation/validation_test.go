package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInputFile(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "fatura.PDF")
	doc := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0600))
	require.NoError(t, os.WriteFile(doc, []byte("x"), 0600))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"supported file", pdf, ""},
		{"missing file", filepath.Join(dir, "missing.pdf"), "path does not exist"},
		{"directory", dir, "not a regular file"},
		{"unsupported extension", doc, "unsupported statement file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsValidInputFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	tests := []struct {
		path  string
		valid bool
	}{
		{"", true},
		{"out.csv", true},
		{"out.JSON", true},
		{"out.xml", false},
		{"out", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := IsValidOutputFormat(tt.path)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
