// Package ledger persists the human-editable review record that mediates
// between automated extraction and the final merge. It is a pure data
// interchange boundary: after Write, an external reviewer edits the file,
// and Read must take back exactly what they wrote.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultFileName is the ledger file written into the input folder.
const DefaultFileName = "tlf_review_ledger.csv"

// Converter backend names accepted in the converter column.
const (
	ConverterWord        = "WORD"
	ConverterLibreOffice = "LIBREOFFICE"
)

// columns is the persisted column order. The file reference comes last so
// the reviewer-facing columns keep their documented order.
var columns = []string{"sequence", "title", "original_title", "format", "converter", "include", "file"}

// Row is one reviewable document entry.
type Row struct {
	Sequence      int    // final order, 1..N
	Title         string // bookmark title, reviewer-editable
	OriginalTitle string // extracted title, read-only audit trail
	Format        string // RTF, DOCX or PDF
	Converter     string // WORD or LIBREOFFICE; blank falls back to the run default
	Include       bool
	File          string // source file name within the input folder
}

// ValidationError reports a structurally broken ledger. It is fatal: the
// run halts before any conversion starts.
type ValidationError struct {
	Line   int // 1-based data row, 0 when the problem is file-wide
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ledger row %d: %s", e.Line, e.Reason)
	}
	return "ledger: " + e.Reason
}

// Write persists rows in column order. Sequence numbers are assigned from
// slice order when unset.
func Write(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for i, r := range rows {
		seq := r.Sequence
		if seq == 0 {
			seq = i + 1
		}
		include := "N"
		if r.Include {
			include = "Y"
		}
		rec := []string{
			strconv.Itoa(seq),
			r.Title,
			r.OriginalTitle,
			r.Format,
			r.Converter,
			include,
			r.File,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// Read loads rows back, tolerating arbitrary manual edits: reordered rows,
// retyped titles, changed converter values, blanked include flags. Text
// fields are taken verbatim apart from surrounding whitespace.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, &ValidationError{Reason: "empty file"}
	}

	// Map header names to positions so column reordering survives.
	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range columns {
		if _, ok := idx[required]; !ok {
			return nil, &ValidationError{Reason: "missing column " + required}
		}
	}

	field := func(rec []string, name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for n, rec := range records[1:] {
		if len(rec) == 0 || allBlank(rec) {
			continue
		}
		line := n + 1
		seqText := field(rec, "sequence")
		seq, err := strconv.Atoi(seqText)
		if err != nil {
			return nil, &ValidationError{Line: line, Reason: fmt.Sprintf("sequence %q is not a number", seqText)}
		}
		rows = append(rows, Row{
			Sequence:      seq,
			Title:         field(rec, "title"),
			OriginalTitle: field(rec, "original_title"),
			Format:        strings.ToUpper(field(rec, "format")),
			Converter:     strings.ToUpper(field(rec, "converter")),
			Include:       parseInclude(field(rec, "include")),
			File:          field(rec, "file"),
		})
	}
	return rows, nil
}

// parseInclude accepts boolean-like values; blank or anything
// unrecognized excludes the row.
func parseInclude(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func allBlank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// Validate checks ledger integrity before any conversion runs. Violations
// are rejected with a named error, never silently renumbered.
func Validate(rows []Row) error {
	if len(rows) == 0 {
		return &ValidationError{Reason: "no rows"}
	}
	seen := make(map[int]int, len(rows))
	for i, r := range rows {
		line := i + 1
		if prev, dup := seen[r.Sequence]; dup {
			return &ValidationError{Line: line, Reason: fmt.Sprintf("duplicate sequence %d (also on row %d)", r.Sequence, prev)}
		}
		seen[r.Sequence] = line
		if r.Sequence < 1 || r.Sequence > len(rows) {
			return &ValidationError{Line: line, Reason: fmt.Sprintf("sequence %d outside 1..%d", r.Sequence, len(rows))}
		}
		if r.File == "" {
			return &ValidationError{Line: line, Reason: "missing file"}
		}
		switch r.Format {
		case "RTF", "DOCX", "PDF":
		case "":
			return &ValidationError{Line: line, Reason: "missing format"}
		default:
			return &ValidationError{Line: line, Reason: "unknown format " + r.Format}
		}
		switch r.Converter {
		case "", ConverterWord, ConverterLibreOffice:
		default:
			return &ValidationError{Line: line, Reason: "unknown converter " + r.Converter}
		}
	}
	return nil
}

var tlfNumberRe = regexp.MustCompile(`\d+(\.\d+)*`)

// sortClass orders initial ledger rows the way reviewers expect to see
// them: tables, then listings, figures, appendices.
func sortClass(titleText string) int {
	lower := strings.ToLower(titleText)
	switch {
	case strings.Contains(lower, "appendix"):
		return 3
	case strings.Contains(lower, "table"):
		return 0
	case strings.Contains(lower, "listing"):
		return 1
	case strings.Contains(lower, "figure"):
		return 2
	}
	return 9
}

// numberKey extracts the dotted TLF number ("14.1.1") as a comparable
// slice of ints.
func numberKey(titleText string) []int {
	m := tlfNumberRe.FindString(titleText)
	if m == "" {
		return nil
	}
	parts := strings.Split(m, ".")
	key := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		key = append(key, n)
	}
	return key
}

func lessNumberKey(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Sort orders rows for the initial ledger write: by TLF class, then dotted
// number, then file name. Sequence numbers are reassigned afterwards.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := sortClass(rows[i].Title), sortClass(rows[j].Title)
		if ci != cj {
			return ci < cj
		}
		ki, kj := numberKey(rows[i].Title), numberKey(rows[j].Title)
		if lessNumberKey(ki, kj) {
			return true
		}
		if lessNumberKey(kj, ki) {
			return false
		}
		return rows[i].File < rows[j].File
	})
	for i := range rows {
		rows[i].Sequence = i + 1
	}
}
