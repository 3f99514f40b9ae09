// Package extract provides format-specific title-line extraction for
// clinical report outputs (RTF, DOCX, PDF).
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a supported source document format.
type Format string

const (
	FormatRTF  Format = "RTF"
	FormatDOCX Format = "DOCX"
	FormatPDF  Format = "PDF"
)

// Adapter extracts candidate title lines from a source document.
// Each implementation isolates one format's extraction quirks.
type Adapter interface {
	// Extract returns candidate title lines in document order.
	// The slice is already narrowed to the lines worth scanning for a
	// title (RTF: centered header lines, DOCX/PDF: leading text lines).
	Extract(path string) ([]string, error)
}

// ExtractionError marks a source document that could not be read.
// The document is excluded from extraction but surfaced to the reviewer.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// adapters maps each format to its extraction implementation.
var adapters = map[Format]Adapter{
	FormatRTF:  &rtfAdapter{},
	FormatDOCX: &docxAdapter{},
	FormatPDF:  &pdfAdapter{},
}

// ForFormat returns the adapter for a format, or nil if unsupported.
func ForFormat(f Format) Adapter {
	return adapters[f]
}

// DetectFormat classifies a file by extension. Office lock files (~$ prefix)
// and unrecognized extensions return ok=false and are skipped by the scan.
func DetectFormat(path string) (Format, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return "", false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".rtf":
		return FormatRTF, true
	case ".docx":
		return FormatDOCX, true
	case ".pdf":
		return FormatPDF, true
	}
	return "", false
}

// Lines extracts candidate title lines from path using the adapter for
// its detected format.
func Lines(path string) (Format, []string, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return "", nil, &ExtractionError{Path: path, Err: fmt.Errorf("unsupported format")}
	}
	lines, err := adapters[format].Extract(path)
	if err != nil {
		return format, nil, &ExtractionError{Path: path, Err: err}
	}
	return format, lines, nil
}
