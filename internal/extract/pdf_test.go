package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clindocs/tlfpack/internal/testutil"
)

func TestPDFExtract_FirstPageLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t14-1-1.pdf")
	testutil.WritePDF(t, path,
		[]string{"Table 14.1.1", "Demographics", "Safety Population"},
		[]string{"Second page body text"},
	)

	lines, err := (&pdfAdapter{}).Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Table 14.1.1", "Demographics", "Safety Population"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPDFExtract_EscapedParens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parens.pdf")
	testutil.WritePDF(t, path, []string{"Table 14.1.1 (Safety)"})

	lines, err := (&pdfAdapter{}).Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "Table 14.1.1 (Safety)" {
		t.Fatalf("got %v, want [Table 14.1.1 (Safety)]", lines)
	}
}

func TestPDFExtract_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&pdfAdapter{}).Extract(path); err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
}

func TestContentStreamLines(t *testing.T) {
	t.Run("Tj with Td line breaks", func(t *testing.T) {
		data := []byte("BT\n/F1 10 Tf\n72 720 Td\n(Table 14.1.1) Tj\n0 -18 Td\n(Demographics) Tj\nET")
		lines := contentStreamLines(data)
		if len(lines) != 2 || lines[0] != "Table 14.1.1" || lines[1] != "Demographics" {
			t.Fatalf("got %v", lines)
		}
	})

	t.Run("TJ array operator", func(t *testing.T) {
		data := []byte("BT\n72 720 Td\n[(Lis) -20 (ting 16.2.1)] TJ\nET")
		lines := contentStreamLines(data)
		if len(lines) != 1 || lines[0] != "Listing 16.2.1" {
			t.Fatalf("got %v", lines)
		}
	})

	t.Run("octal escapes", func(t *testing.T) {
		data := []byte("BT\n72 720 Td\n(Table\\04014.1.1) Tj\nET")
		lines := contentStreamLines(data)
		if len(lines) != 1 || lines[0] != "Table 14.1.1" {
			t.Fatalf("got %v", lines)
		}
	})
}
