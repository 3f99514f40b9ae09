// Package pipeline orchestrates the two-phase TLF packaging run:
// Prepare scans and extracts titles into the review ledger, Finalize
// reads the approved ledger and produces the merged, bookmarked PDF with
// a table of contents. The two phases share no process state — the
// ledger file is the only channel by which reviewer intent reaches the
// merge stage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clindocs/tlfpack/internal/config"
	"github.com/clindocs/tlfpack/internal/convert"
	"github.com/clindocs/tlfpack/internal/extract"
	"github.com/clindocs/tlfpack/internal/ledger"
	"github.com/clindocs/tlfpack/internal/merge"
	"github.com/clindocs/tlfpack/internal/title"
	"github.com/clindocs/tlfpack/internal/toc"
)

// PrepareOptions parameterize the extraction phase.
type PrepareOptions struct {
	Dir        string
	LedgerPath string // defaults to Dir/<configured ledger name>
	Config     *config.Config
	Logger     *slog.Logger
}

// PrepareResult summarizes the extraction phase.
type PrepareResult struct {
	LedgerPath string       `json:"ledger" yaml:"ledger"`
	Scanned    int          `json:"scanned" yaml:"scanned"`
	Invalid    int          `json:"invalid_titles" yaml:"invalid_titles"`
	Failed     int          `json:"failed" yaml:"failed"`
	Rows       []ledger.Row `json:"-" yaml:"-"`
}

// Prepare scans the input folder, extracts a title candidate per
// document and writes the review ledger for the human approval pass.
func Prepare(ctx context.Context, opts PrepareOptions) (*PrepareResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	ledgerPath := opts.LedgerPath
	if ledgerPath == "" {
		ledgerPath = filepath.Join(opts.Dir, cfg.Ledger.FileName)
	}

	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("read input folder: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	res := &PrepareResult{LedgerPath: ledgerPath}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		format, ok := extract.DetectFormat(name)
		if !ok {
			continue
		}
		res.Scanned++
		path := filepath.Join(opts.Dir, name)

		_, lines, err := extract.Lines(path)
		if err != nil {
			res.Failed++
			log.Warn("extraction failed", "file", name, "format", format, "error", err)
			// Surface the document to the reviewer with an empty title;
			// they can still supply one manually.
			res.Rows = append(res.Rows, ledger.Row{
				Format:  string(format),
				File:    name,
				Include: false,
			})
			continue
		}

		cand := title.Validate(lines, title.DefaultWindow)
		bookmark := cand.Bookmark()
		if !cand.Valid {
			res.Invalid++
			log.Warn("no title keyword found", "file", name, "format", format, "scanned_lines", len(lines))
		} else {
			log.Info("title extracted", "file", name, "format", format, "title", bookmark)
		}
		res.Rows = append(res.Rows, ledger.Row{
			Title:         bookmark,
			OriginalTitle: bookmark,
			Format:        string(format),
			File:          name,
			Include:       true,
		})
	}

	if res.Scanned == 0 {
		return nil, fmt.Errorf("no RTF, DOCX or PDF files in %s", opts.Dir)
	}

	ledger.Sort(res.Rows)
	if err := ledger.Write(ledgerPath, res.Rows); err != nil {
		return nil, err
	}
	log.Info("review ledger written", "path", ledgerPath, "rows", len(res.Rows))
	return res, nil
}

// FinalizeOptions parameterize the merge phase.
type FinalizeOptions struct {
	Dir        string
	LedgerPath string // defaults to Dir/<configured ledger name>
	OutputName string // defaults to {category}_{timestamp}.pdf
	// DeleteConverted removes intermediate PDFs produced from RTF/DOCX
	// sources after a successful merge.
	DeleteConverted bool
	Config          *config.Config
	Logger          *slog.Logger
}

// FinalizeResult summarizes the merge phase.
type FinalizeResult struct {
	Output    string `json:"output" yaml:"output"`
	Processed int    `json:"processed" yaml:"processed"`
	Excluded  int    `json:"excluded" yaml:"excluded"`
	Failed    int    `json:"failed" yaml:"failed"`
	Bookmarks int    `json:"bookmarks" yaml:"bookmarks"`
	TocPages  int    `json:"toc_pages" yaml:"toc_pages"`
}

// Finalize reads the approved ledger and produces the final document.
// Ledger validation failures are fatal before any conversion starts;
// per-document conversion failures are contained.
func Finalize(ctx context.Context, opts FinalizeOptions) (*FinalizeResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	ledgerPath := opts.LedgerPath
	if ledgerPath == "" {
		ledgerPath = filepath.Join(opts.Dir, cfg.Ledger.FileName)
	}

	rows, err := ledger.Read(ledgerPath)
	if err != nil {
		return nil, err
	}
	if err := ledger.Validate(rows); err != nil {
		return nil, err
	}

	included := 0
	for _, r := range rows {
		if r.Include {
			included++
		} else {
			log.Info("excluded by reviewer", "file", r.File)
		}
	}
	if included == 0 {
		return nil, fmt.Errorf("ledger %s has zero included documents", ledgerPath)
	}

	// Merge in approved sequence order.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })

	dispatcher := convert.NewDispatcher(
		&convert.LibreOffice{
			Path:     cfg.Converters.LibreOffice.Path,
			Attempts: cfg.Converters.LibreOffice.Attempts,
			Timeout:  cfg.Converters.LibreOffice.Timeout(),
		},
		&convert.Word{
			Command: cfg.Converters.Word.Command,
			Timeout: cfg.Converters.Word.Timeout(),
		},
		cfg.Converters.Default,
		log,
	)

	artifacts, failures := dispatcher.Convert(ctx, opts.Dir, rows)
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("all %d included documents failed conversion", included)
	}

	runTag := uuid.New().String()[:8]
	bodyPath := filepath.Join(opts.Dir, fmt.Sprintf(".tlfpack_body_%s.pdf", runTag))
	tocPath := filepath.Join(opts.Dir, fmt.Sprintf(".tlfpack_toc_%s.pdf", runTag))
	defer os.Remove(bodyPath)
	defer os.Remove(tocPath)

	mergeRes, err := merge.Merge(artifacts, bodyPath, merge.Options{
		KeepUntitled: cfg.Merge.KeepUntitled,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	var tocRes *toc.Result
	if cfg.TOC.Enabled {
		entries := make([]toc.Entry, 0, len(mergeRes.Bookmarks))
		for _, b := range mergeRes.Bookmarks {
			entries = append(entries, toc.Entry{Title: b.Title, Page: b.Page})
		}
		tocRes, err = toc.Build(entries, tocPath, toc.Options{
			RowsPerPage: cfg.TOC.RowsPerPage,
			FontSize:    cfg.TOC.FontSize,
			Header:      cfg.TOC.Header,
		})
		if err != nil {
			return nil, err
		}
	} else {
		tocRes = &toc.Result{}
	}

	outputName := opts.OutputName
	if outputName == "" {
		outputName = OutputName(opts.Dir, time.Now())
	}
	finalPath := filepath.Join(opts.Dir, outputName)

	if err := toc.Prepend(tocRes, bodyPath, finalPath, mergeRes.Bookmarks); err != nil {
		return nil, err
	}

	// Log the final page map for the audit trail.
	for _, b := range mergeRes.Bookmarks {
		log.Info("bookmark", "title", b.Title, "page", b.Page+tocRes.PageCount, "appendix", b.Appendix)
	}

	// Intermediates are deleted only after the merge has consumed them.
	if opts.DeleteConverted {
		for _, a := range artifacts {
			if !a.Converted {
				continue
			}
			if err := os.Remove(a.Path); err != nil {
				log.Warn("could not delete intermediate", "path", a.Path, "error", err)
			} else {
				log.Info("deleted intermediate", "path", a.Path)
			}
		}
	}

	res := &FinalizeResult{
		Output:    finalPath,
		Processed: len(artifacts) - mergeRes.Dropped,
		Excluded:  len(rows) - included + mergeRes.Dropped,
		Failed:    len(failures),
		Bookmarks: len(mergeRes.Bookmarks),
		TocPages:  tocRes.PageCount,
	}
	log.Info("package complete",
		"output", finalPath,
		"processed", res.Processed,
		"excluded", res.Excluded,
		"failed", res.Failed,
		"toc_pages", res.TocPages,
	)
	return res, nil
}
