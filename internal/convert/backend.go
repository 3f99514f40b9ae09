// Package convert renders RTF and DOCX sources to PDF through external
// converter engines and dispatches rows to the engine the reviewer chose.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend is an external engine that renders an RTF/DOCX file to a
// single-document PDF. Backends are fungible: same input contract, same
// output contract, different execution cost and availability. They are
// exclusive, non-reentrant resources, so the dispatcher never runs two
// conversions at once.
type Backend interface {
	Name() string
	// Convert renders src to a PDF in outDir and returns the PDF path.
	Convert(ctx context.Context, src, outDir string) (string, error)
}

// ConversionError reports a single row's conversion failure. It is
// contained: the row is excluded from the merge and the run continues.
type ConversionError struct {
	File    string
	Backend string
	Err     error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s via %s: %v", filepath.Base(e.File), e.Backend, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// pdfSibling returns the conversion target path for src inside outDir.
func pdfSibling(src, outDir string) string {
	base := filepath.Base(src)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
}
