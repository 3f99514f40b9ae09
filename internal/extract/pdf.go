package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type pdfAdapter struct{}

// Extract reads the first page's text in layout order. Later pages never
// carry the section title, so only page 1 is parsed.
func (a *pdfAdapter) Extract(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("empty PDF")
	}

	r, err := pdfcpu.ExtractPageContent(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no text content on first page")
	}
	return contentStreamLines(data), nil
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// contentStreamLines parses PDF content stream text operators, treating
// positioning operators (Td/TD/T*) and the ' operator as line breaks so
// the result follows the page's layout order.
func contentStreamLines(data []byte) []string {
	var sb strings.Builder

	appendLiterals := func(line []byte, newline bool) {
		matches := pdfStringRe.FindAllSubmatch(line, -1)
		for _, m := range matches {
			text := decodePDFString(m[1])
			if text == "" {
				continue
			}
			if newline {
				sb.WriteByte('\n')
				newline = false
			}
			sb.WriteString(text)
		}
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		switch {
		case bytes.HasSuffix(line, []byte("Tj")):
			appendLiterals(line, false)
		case bytes.HasSuffix(line, []byte("TJ")):
			appendLiterals(line, false)
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			appendLiterals(line, true)
		case bytes.HasSuffix(line, []byte("Td")) || bytes.HasSuffix(line, []byte("TD")):
			sb.WriteByte('\n')
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	var lines []string
	for _, raw := range strings.Split(sb.String(), "\n") {
		if line := cleanPDFLine(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '(':
				sb.WriteByte('(')
			case ')':
				sb.WriteByte(')')
			default:
				// Octal escape (e.g. \040 for space).
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
						if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
							i++
							val = val*8 + int(raw[i]-'0')
						}
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// cleanPDFLine normalises whitespace within one extracted line.
func cleanPDFLine(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
