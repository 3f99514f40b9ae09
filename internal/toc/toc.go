// Package toc builds the table-of-contents pages for a merged TLF
// package and prepends them, shifting every page reference by the TOC's
// own page count.
package toc

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/clindocs/tlfpack/internal/merge"
)

// Entry is one TOC row: a bookmark title and its pre-TOC body page.
type Entry struct {
	Title string
	Page  int // 1-indexed into the body, before the TOC is prepended
}

// Options control TOC layout. The zero value renders an A4 TOC at 8pt in
// the standard layout.
type Options struct {
	// RowsPerPage fixes the entry capacity per TOC page. When 0 the
	// capacity is computed from the page height and wrapped line counts.
	RowsPerPage int
	FontSize    float64
	// Header renders a centered "Table of Contents" line on the first
	// page. When false, entries start at the first row.
	Header bool
}

func (o Options) fontSize() float64 {
	if o.FontSize <= 0 {
		return 8
	}
	return o.FontSize
}

// Result describes the generated TOC document.
type Result struct {
	Path      string // standalone TOC PDF
	PageCount int    // K: the shift every downstream page number receives
	links     []link
}

// Build lays out entries into TOC pages and writes them to tocPath.
// Rendered page numbers are the post-shift values a reader will see:
// entry page P prints and links as P+K, K being the TOC's own page count.
// The layout is deterministic: the same entries always produce identical
// pagination and targets.
func Build(entries []Entry, tocPath string, opts Options) (*Result, error) {
	if len(entries) == 0 {
		return &Result{PageCount: 0}, nil
	}
	pages := paginate(entries, opts)
	k := len(pages)

	links, err := renderPages(pages, k, tocPath, opts)
	if err != nil {
		return nil, fmt.Errorf("render toc: %w", err)
	}
	return &Result{Path: tocPath, PageCount: k, links: links}, nil
}

// Prepend merges the TOC in front of the body into finalPath, rewrites
// the body bookmarks shifted by the TOC page count and attaches one
// internal link per TOC row.
func Prepend(res *Result, bodyPath, finalPath string, bookmarks []merge.Bookmark) error {
	if res.PageCount == 0 {
		// TOC disabled or empty: the body is the final document.
		if err := api.MergeCreateFile([]string{bodyPath}, finalPath, false, nil); err != nil {
			return fmt.Errorf("finalize body: %w", err)
		}
		return merge.ApplyShift(finalPath, bookmarks, 0)
	}

	if err := api.MergeCreateFile([]string{res.Path, bodyPath}, finalPath, false, nil); err != nil {
		return fmt.Errorf("prepend toc: %w", err)
	}
	if err := merge.ApplyShift(finalPath, bookmarks, res.PageCount); err != nil {
		return err
	}
	return addLinks(finalPath, res.links, res.PageCount)
}
