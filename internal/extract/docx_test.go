package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/clindocs/tlfpack/internal/testutil"
)

func TestDOCXExtract_ParagraphOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "l16-2-1.docx")
	testutil.WriteDOCX(t, path,
		"Protocol Summary",
		"Listing 16.2.1 AE Listing",
		"Safety Population",
	)

	lines, err := (&docxAdapter{}).Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Protocol Summary", "Listing 16.2.1 AE Listing", "Safety Population"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDOCXExtract_HeaderPartFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hdr.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)

	headerXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:p><w:r><w:t>Table 14.3.2</w:t></w:r></w:p>
</w:hdr>`
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Body paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	hw, _ := w.Create("word/header1.xml")
	hw.Write([]byte(headerXML))
	dw, _ := w.Create("word/document.xml")
	dw.Write([]byte(docXML))
	w.Close()
	f.Close()

	lines, err := (&docxAdapter{}).Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) < 2 || lines[0] != "Table 14.3.2" {
		t.Fatalf("got %v, want header line first", lines)
	}
	if lines[1] != "Body paragraph" {
		t.Errorf("line 2 = %q, want %q", lines[1], "Body paragraph")
	}
}

func TestDOCXExtract_SplitRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Figure </w:t></w:r><w:r><w:t>14.2.1</w:t></w:r></w:p>
</w:body>
</w:document>`
	dw, _ := w.Create("word/document.xml")
	dw.Write([]byte(docXML))
	w.Close()
	f.Close()

	lines, err := (&docxAdapter{}).Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "Figure 14.2.1" {
		t.Fatalf("got %v, want [Figure 14.2.1]", lines)
	}
}

func TestDOCXExtract_MissingDocumentXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	fw, _ := w.Create("word/other.xml")
	fw.Write([]byte("<x/>"))
	w.Close()
	f.Close()

	if _, err := (&docxAdapter{}).Extract(path); err == nil {
		t.Fatal("expected error for archive without document.xml")
	}
}

func TestDOCXExtract_NotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&docxAdapter{}).Extract(path); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
}
