// Package title derives validated bookmark titles from extracted
// document lines.
package title

import (
	"regexp"
	"strings"
)

// Keywords mark a line as the start of a TLF title.
var Keywords = []string{"Listing", "Table", "Figure", "Appendix"}

// DefaultWindow is how many scanned lines may precede the keyword line.
const DefaultWindow = 3

// Candidate is a derived bookmark title for one source document.
type Candidate struct {
	// Lines holds the keyword line plus up to two following lines.
	Lines []string
	Valid bool
}

// Bookmark joins the candidate lines into a single bookmark string:
// "Table 14.1.1: Demographics - Safety Population".
func (c Candidate) Bookmark() string {
	switch len(c.Lines) {
	case 0:
		return ""
	case 1:
		return c.Lines[0]
	case 2:
		return c.Lines[0] + ": " + c.Lines[1]
	default:
		return c.Lines[0] + ": " + c.Lines[1] + " - " + c.Lines[2]
	}
}

var noteRe = regexp.MustCompile(`(?i)\bNote\s*:`)

// stripNote cuts a trailing "Note: ..." annotation from a line.
func stripNote(s string) string {
	if loc := noteRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}

var (
	refMarkerRe = regexp.MustCompile(`\[\d+\]`)
	allCapsRe   = regexp.MustCompile(`^[A-Z0-9\\*]+$`)
)

// usableLine rejects lines that are layout artifacts rather than title
// text: footnote markers, all-caps keyword rows, multi-dotted strings.
func usableLine(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(s), "note:") {
		return false
	}
	if strings.Count(s, ".") > 1 && !containsKeyword(s) {
		return false
	}
	if refMarkerRe.MatchString(s) {
		return false
	}
	if strings.HasPrefix(s, "*") || strings.HasPrefix(s, `\*`) {
		return false
	}
	if allCapsRe.MatchString(s) {
		return false
	}
	return true
}

func containsKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Validate scans lines in order for the first one containing a title
// keyword (case-insensitive substring match) within the first window
// non-blank lines. The title is that line plus up to two following usable
// lines. Blank lines are skipped without consuming the window. If no
// keyword is found the candidate is invalid with an empty title.
func Validate(lines []string, window int) Candidate {
	if window <= 0 {
		window = DefaultWindow
	}
	scanned := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned >= window {
			break
		}
		scanned++
		if !containsKeyword(line) {
			continue
		}
		c := Candidate{Valid: true, Lines: []string{stripNote(line)}}
		for _, next := range lines[i+1:] {
			if len(c.Lines) == 3 {
				break
			}
			next = stripNote(next)
			if next == "" {
				continue
			}
			if !usableLine(next) {
				break
			}
			c.Lines = append(c.Lines, next)
		}
		return c
	}
	return Candidate{}
}
