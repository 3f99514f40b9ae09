package toc

import (
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// A4 in points, matching the body documents produced by the converters.
const (
	pageWidth  = 595.28
	pageHeight = 841.89

	leftMargin  = 50.0
	topMargin   = 50.0
	rightMargin = 60.0
	numberGap   = 8.0

	headerText = "Table of Contents"
)

// placed is one entry with its wrapped title lines, assigned to a page.
type placed struct {
	entry Entry
	lines []string
}

// tocPage is the set of entries laid out on one TOC page.
type tocPage []placed

// link records the clickable area for one TOC row, in gofpdf coordinates
// (origin top-left, y grows downward).
type link struct {
	tocPage int     // 1-indexed TOC page carrying the rect
	target  int     // pre-TOC body page the row points at
	x, y    float64 // top-left of the hot area
	w, h    float64
}

// measurer wraps gofpdf string metrics for layout without emitting pages.
type measurer struct {
	pdf  *gofpdf.Fpdf
	size float64
}

func newMeasurer(size float64) *measurer {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", size)
	return &measurer{pdf: pdf, size: size}
}

func (m *measurer) width(s string) float64 {
	return m.pdf.GetStringWidth(s)
}

// textMaxWidth is the horizontal room for title text, reserving space for
// a five-digit page number and the dot-leader gap.
func (m *measurer) textMaxWidth() float64 {
	numberWidth := m.width("99999")
	return pageWidth - rightMargin - leftMargin - numberWidth - numberGap
}

// wrap splits a title into lines that fit maxWidth at the TOC font size.
func (m *measurer) wrap(titleText string, maxWidth float64) []string {
	words := strings.Fields(titleText)
	var lines []string
	current := ""
	for _, word := range words {
		test := current
		if test != "" {
			test += " "
		}
		test += word
		if m.width(test) <= maxWidth || current == "" {
			current = test
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// paginate assigns entries to TOC pages. With a fixed RowsPerPage the
// capacity is counted in entries; otherwise it is counted in wrapped
// lines against the page height.
func paginate(entries []Entry, opts Options) []tocPage {
	m := newMeasurer(opts.fontSize())
	maxWidth := m.textMaxWidth()
	ySpacing := opts.fontSize() * 1.5

	var pages []tocPage
	var current tocPage

	linesPerPage := int((pageHeight-2*topMargin)/ySpacing) - 2
	if opts.RowsPerPage > 0 {
		// RowsPerPage caps entries per page; the page height still bounds
		// wrapped lines so oversized values cannot overflow the page.
		lineCount := 0
		for _, e := range entries {
			p := placed{entry: e, lines: m.wrap(e.Title, maxWidth)}
			if len(current) == opts.RowsPerPage ||
				(lineCount+len(p.lines) > linesPerPage && len(current) > 0) {
				pages = append(pages, current)
				current = nil
				lineCount = 0
			}
			current = append(current, p)
			lineCount += len(p.lines)
		}
	} else {
		lineCount := 0
		for _, e := range entries {
			p := placed{entry: e, lines: m.wrap(e.Title, maxWidth)}
			if lineCount+len(p.lines) > linesPerPage && len(current) > 0 {
				pages = append(pages, current)
				current = nil
				lineCount = 0
			}
			current = append(current, p)
			lineCount += len(p.lines)
		}
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// renderPages draws the TOC pages to tocPath. Page numbers are rendered
// post-shift (entry page + k) with dot leaders, right-aligned. Returns
// the link hot areas for every row.
func renderPages(pages []tocPage, k int, tocPath string, opts Options) ([]link, error) {
	size := opts.fontSize()
	ySpacing := size * 1.5
	numberX := pageWidth - rightMargin

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", size)
	pdf.SetAutoPageBreak(false, 0)

	var links []link
	for pageIndex, page := range pages {
		pdf.AddPage()
		y := topMargin

		if pageIndex == 0 && opts.Header {
			pdf.SetFont("Helvetica", "B", size+2)
			headerWidth := pdf.GetStringWidth(headerText)
			pdf.Text(pageWidth/2-headerWidth/2, y, headerText)
			pdf.SetFont("Helvetica", "", size)
			y += size * 2
		}

		for _, p := range page {
			numberText := strconv.Itoa(p.entry.Page + k)
			numberWidth := pdf.GetStringWidth(numberText)
			firstLineY := y

			for i, line := range p.lines {
				pdf.Text(leftMargin, y, line)
				if i == len(p.lines)-1 {
					lineWidth := pdf.GetStringWidth(line)
					dotsStart := leftMargin + lineWidth + 2
					dotsEnd := numberX - numberWidth - numberGap
					if dotsStart < dotsEnd {
						dotWidth := pdf.GetStringWidth(".")
						dots := strings.Repeat(".", int((dotsEnd-dotsStart)/dotWidth))
						pdf.Text(dotsStart, y, dots)
					}
					pdf.Text(numberX-numberWidth, y, numberText)
				}
				y += ySpacing
			}

			links = append(links, link{
				tocPage: pageIndex + 1,
				target:  p.entry.Page,
				x:       leftMargin,
				y:       firstLineY - size,
				w:       numberX - leftMargin,
				h:       y - (firstLineY - size),
			})
		}
	}

	if err := pdf.OutputFileAndClose(tocPath); err != nil {
		return nil, err
	}
	return links, nil
}
