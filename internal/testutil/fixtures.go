// Package testutil builds minimal but valid source-document fixtures for
// tests: PDFs with correct xref offsets, DOCX archives and RTF files.
package testutil

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
	"testing"
)

// WritePDF writes a PDF to path with one page per element of pageLines,
// each page carrying its lines as uncompressed text operators. The files
// parse cleanly with pdfcpu for merging, page counting and first-page
// text extraction.
func WritePDF(t *testing.T, path string, pageLines ...[]string) {
	t.Helper()
	if err := os.WriteFile(path, BuildPDF(pageLines...), 0o644); err != nil {
		t.Fatal(err)
	}
}

// BuildPDF renders the PDF bytes for WritePDF.
func BuildPDF(pageLines ...[]string) []byte {
	n := len(pageLines)
	if n == 0 {
		pageLines = [][]string{nil}
		n = 1
	}

	// Object layout: 1 catalog, 2 pages, 3..2+n page objects,
	// 3+n..2+2n content streams, 3+2n font.
	fontObj := 3 + 2*n
	size := fontObj + 1

	var b strings.Builder
	offsets := make([]int, size)

	b.WriteString("%PDF-1.4\n")

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d 0 R", 3+i)
	}
	fmt.Fprintf(&b, "] /Count %d >>\nendobj\n", n)

	for i := 0; i < n; i++ {
		offsets[3+i] = b.Len()
		fmt.Fprintf(&b,
			"%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>\nendobj\n",
			3+i, 3+n+i, fontObj)
	}

	for i, lines := range pageLines {
		stream := contentStream(lines)
		offsets[3+n+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			3+n+i, len(stream), stream)
	}

	offsets[fontObj] = b.Len()
	fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", fontObj)

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", size)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i < size; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xrefOffset)

	return []byte(b.String())
}

// contentStream draws lines top-down at 10pt with escaped literals.
func contentStream(lines []string) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 10 Tf\n72 720 Td\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("0 -18 Td\n")
		}
		escaped := strings.ReplaceAll(line, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "(", `\(`)
		escaped = strings.ReplaceAll(escaped, ")", `\)`)
		fmt.Fprintf(&b, "(%s) Tj\n", escaped)
	}
	b.WriteString("ET")
	return b.String()
}

// WriteDOCX writes a minimal .docx archive with one body paragraph per
// element of paragraphs.
func WriteDOCX(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
`)
	for _, p := range paragraphs {
		fmt.Fprintf(&doc, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>\n", xmlEscape(p))
	}
	doc.WriteString("</w:body>\n</w:document>")

	fw, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(doc.String())); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// WriteRTF writes an RTF file whose paragraphs carry the given alignment:
// centered entries render with \qc, others with \ql.
type RTFPara struct {
	Text     string
	Centered bool
}

func WriteRTF(t *testing.T, path string, paras ...RTFPara) {
	t.Helper()
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0 Courier New;}}` + "\n")
	for _, p := range paras {
		align := `\ql`
		if p.Centered {
			align = `\qc`
		}
		fmt.Fprintf(&b, `\pard%s %s\par`+"\n", align, p.Text)
	}
	b.WriteString("}")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}
