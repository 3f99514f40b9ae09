// Package merge concatenates converted PDFs in reviewer order and stamps
// a bookmark at the first page of each document.
package merge

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/clindocs/tlfpack/internal/convert"
)

// Bookmark is a navigation anchor for one merged document.
type Bookmark struct {
	Title    string
	Page     int // 1-indexed first page; pre-TOC until the TOC shift is applied
	Appendix bool
}

// MergeError reports a promised artifact missing or unreadable at merge
// time. It is fatal for the run: continuing would corrupt the TOC's page
// arithmetic.
type MergeError struct {
	File string
	Err  error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge %s: %v", e.File, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// IsAppendix reports whether a bookmark title places the document in the
// appendix partition.
func IsAppendix(titleText string) bool {
	return strings.Contains(strings.ToLower(titleText), "appendix")
}

// Partition orders artifacts for the final document: body sections first,
// appendices last, each side keeping the reviewer's relative order. The
// split is structural — appendices never interleave with body sections
// even when the reviewer's sequence numbers interleave them.
func Partition(artifacts []convert.Artifact) []convert.Artifact {
	ordered := make([]convert.Artifact, len(artifacts))
	copy(ordered, artifacts)
	sort.SliceStable(ordered, func(i, j int) bool {
		ai, aj := IsAppendix(ordered[i].Row.Title), IsAppendix(ordered[j].Row.Title)
		if ai != aj {
			return !ai
		}
		return ordered[i].Row.Sequence < ordered[j].Row.Sequence
	})
	return ordered
}

// Result is the merged body document and its provisional bookmark set.
type Result struct {
	Path      string
	Bookmarks []Bookmark
	PageCount int
	// Untitled counts documents merged without a bookmark.
	Untitled int
	// Dropped counts untitled documents excluded by policy.
	Dropped int
}

// Options control the merge.
type Options struct {
	// KeepUntitled merges documents whose title is empty without a
	// bookmark; when false those documents are dropped entirely.
	KeepUntitled bool
	Logger       *slog.Logger
}

// Merge partitions artifacts, concatenates their pages into outPath and
// attaches one bookmark per titled document at its first page.
func Merge(artifacts []convert.Artifact, outPath string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	ordered := Partition(artifacts)

	res := &Result{Path: outPath}
	var paths []string
	page := 1
	for _, a := range ordered {
		if _, err := os.Stat(a.Path); err != nil {
			return nil, &MergeError{File: a.Path, Err: err}
		}
		if a.PageCount <= 0 {
			return nil, &MergeError{File: a.Path, Err: fmt.Errorf("artifact has no pages")}
		}
		if a.Row.Title == "" {
			if !opts.KeepUntitled {
				res.Dropped++
				log.Warn("dropping untitled document", "file", a.Row.File)
				continue
			}
			res.Untitled++
			log.Warn("merging untitled document without bookmark", "file", a.Row.File)
		} else {
			res.Bookmarks = append(res.Bookmarks, Bookmark{
				Title:    a.Row.Title,
				Page:     page,
				Appendix: IsAppendix(a.Row.Title),
			})
		}
		log.Info("merging", "file", a.Row.File, "first_page", page, "pages", a.PageCount, "title", a.Row.Title)
		paths = append(paths, a.Path)
		page += a.PageCount
	}
	res.PageCount = page - 1

	if len(paths) == 0 {
		return nil, &MergeError{File: outPath, Err: fmt.Errorf("no documents to merge")}
	}

	if err := api.MergeCreateFile(paths, outPath, false, nil); err != nil {
		return nil, &MergeError{File: outPath, Err: err}
	}

	if len(res.Bookmarks) > 0 {
		if err := api.AddBookmarksFile(outPath, outPath, toPDFBookmarks(res.Bookmarks, 0), true, nil); err != nil {
			return nil, &MergeError{File: outPath, Err: fmt.Errorf("add bookmarks: %w", err)}
		}
	}

	return res, nil
}

// toPDFBookmarks converts bookmarks to the pdfcpu form, shifting targets
// by offset pages.
func toPDFBookmarks(bms []Bookmark, offset int) []pdfcpu.Bookmark {
	out := make([]pdfcpu.Bookmark, 0, len(bms))
	for _, b := range bms {
		out = append(out, pdfcpu.Bookmark{
			Title:    b.Title,
			PageFrom: b.Page + offset,
		})
	}
	return out
}

// ApplyShift writes the final bookmark set into path with every target
// shifted by the TOC's page count.
func ApplyShift(path string, bms []Bookmark, offset int) error {
	if len(bms) == 0 {
		return nil
	}
	if err := api.AddBookmarksFile(path, path, toPDFBookmarks(bms, offset), true, nil); err != nil {
		return fmt.Errorf("shift bookmarks: %w", err)
	}
	return nil
}
