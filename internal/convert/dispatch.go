package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/clindocs/tlfpack/internal/ledger"
)

// Artifact is the conversion result for one included row: the PDF the
// merge will consume. PDF-native rows pass through unconverted.
type Artifact struct {
	Row       ledger.Row
	Path      string
	PageCount int
	Converted bool // true when the PDF is an intermediate we produced
}

// Dispatcher routes each row to the converter named in its ledger row,
// falling back to an immutable run-level default when the column is blank.
type Dispatcher struct {
	Backends map[string]Backend
	// Default converter name, injected once at pipeline start.
	Default string
	Logger  *slog.Logger
}

// NewDispatcher wires the standard backend set.
func NewDispatcher(lo *LibreOffice, word *Word, defaultName string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Backends: map[string]Backend{
			ledger.ConverterLibreOffice: lo,
			ledger.ConverterWord:        word,
		},
		Default: strings.ToUpper(defaultName),
		Logger:  logger,
	}
}

// backendFor resolves a row's converter name case-insensitively.
func (d *Dispatcher) backendFor(row ledger.Row) (Backend, error) {
	name := strings.ToUpper(strings.TrimSpace(row.Converter))
	if name == "" {
		name = d.Default
	}
	b, ok := d.Backends[name]
	if !ok || b == nil {
		return nil, fmt.Errorf("no backend registered for %q", name)
	}
	return b, nil
}

// Convert processes included rows strictly in order, one conversion at a
// time: converter engines are single-instance and not safely
// parallelizable. One row's failure never blocks subsequent rows; failed
// rows are returned separately and excluded from the merge.
func (d *Dispatcher) Convert(ctx context.Context, dir string, rows []ledger.Row) ([]Artifact, []*ConversionError) {
	var artifacts []Artifact
	var failures []*ConversionError

	for _, row := range rows {
		if !row.Include {
			continue
		}
		src := filepath.Join(dir, row.File)

		if row.Format == "PDF" {
			pages, err := api.PageCountFile(src)
			if err != nil {
				failures = append(failures, &ConversionError{File: row.File, Backend: "passthrough", Err: err})
				d.Logger.Warn("unreadable PDF excluded", "file", row.File, "error", err)
				continue
			}
			artifacts = append(artifacts, Artifact{Row: row, Path: src, PageCount: pages})
			continue
		}

		backend, err := d.backendFor(row)
		if err != nil {
			failures = append(failures, &ConversionError{File: row.File, Backend: row.Converter, Err: err})
			d.Logger.Warn("conversion skipped", "file", row.File, "error", err)
			continue
		}

		d.Logger.Info("converting", "file", row.File, "backend", backend.Name())
		out, err := backend.Convert(ctx, src, dir)
		if err != nil {
			failures = append(failures, &ConversionError{File: row.File, Backend: backend.Name(), Err: err})
			d.Logger.Warn("conversion failed", "file", row.File, "backend", backend.Name(), "error", err)
			continue
		}

		pages, err := api.PageCountFile(out)
		if err != nil {
			failures = append(failures, &ConversionError{File: row.File, Backend: backend.Name(), Err: fmt.Errorf("converted PDF unreadable: %w", err)})
			d.Logger.Warn("converted PDF unreadable", "file", row.File, "error", err)
			continue
		}

		d.Logger.Info("converted", "file", row.File, "backend", backend.Name(), "pages", pages)
		artifacts = append(artifacts, Artifact{Row: row, Path: out, PageCount: pages, Converted: true})
	}

	return artifacts, failures
}
