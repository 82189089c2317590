// Package textsource turns statement files into plain text for the parser.
// PDFs go through an Extractor; text exports are read directly and decoded
// from Windows-1252 when they are not valid UTF-8.
package textsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fintracker/internal/logging"

	"golang.org/x/text/encoding/charmap"
)

// Reader reads statement documents of any supported kind.
type Reader struct {
	pdf    Extractor
	logger logging.Logger
}

// NewReader creates a Reader using pdf for PDF files.
func NewReader(pdf Extractor, logger logging.Logger) *Reader {
	if pdf == nil {
		pdf = NewPDFExtractor()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Reader{pdf: pdf, logger: logger}
}

// ReadDocument returns the text content of the file at path.
func (r *Reader) ReadDocument(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := r.pdf.ExtractText(path)
		if err != nil {
			return "", err
		}
		r.logger.Debug("PDF text extracted",
			logging.F(logging.FieldInputFile, path),
			logging.F(logging.FieldCount, len(text)))
		return text, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", path, err)
	}
	text, err := DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("error decoding %s: %w", path, err)
	}
	return text, nil
}

// DecodeText returns data as a UTF-8 string. A UTF-8 BOM is dropped; bytes
// that are not valid UTF-8 are decoded as Windows-1252.
func DecodeText(data []byte) (string, error) {
	data = []byte(strings.TrimPrefix(string(data), "\uFEFF"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
