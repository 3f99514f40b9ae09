package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// maxDocxLines bounds how many leading paragraph lines the DOCX adapter
// returns; titles sit at the very top of TLF outputs.
const maxDocxLines = 10

type docxAdapter struct{}

// Extract reads paragraph text in document order from a .docx archive.
// Section header parts (word/header*.xml) are scanned before the body,
// since TLF titles usually live in the page header.
func (a *docxAdapter) Extract(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var headers []*zip.File
	var body *zip.File
	for _, f := range r.File {
		switch {
		case f.Name == "word/document.xml":
			body = f
		case strings.HasPrefix(f.Name, "word/header") && strings.HasSuffix(f.Name, ".xml"):
			headers = append(headers, f)
		}
	}
	if body == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].Name < headers[j].Name })

	var lines []string
	for _, f := range append(headers, body) {
		part, err := docxParagraphs(f)
		if err != nil {
			return nil, err
		}
		lines = append(lines, part...)
		if len(lines) >= maxDocxLines {
			lines = lines[:maxDocxLines]
			break
		}
	}
	return lines, nil
}

// docxParagraphs streams one WordprocessingML part and returns its
// non-empty paragraph texts in order.
func docxParagraphs(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var (
		lines       []string
		currentText strings.Builder
		inParagraph bool
		inText      bool
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				currentText.Reset()
			case "t":
				inText = true
			case "tab":
				if inParagraph {
					currentText.WriteByte(' ')
				}
			case "br":
				if inParagraph {
					currentText.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inParagraph && inText {
				currentText.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				inParagraph = false
				for _, line := range strings.Split(currentText.String(), "\n") {
					if line = strings.TrimSpace(line); line != "" {
						lines = append(lines, line)
					}
				}
			}
		}
		if len(lines) >= maxDocxLines {
			break
		}
	}
	return lines, nil
}
