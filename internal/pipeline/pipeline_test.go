package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/clindocs/tlfpack/internal/config"
	"github.com/clindocs/tlfpack/internal/ledger"
	"github.com/clindocs/tlfpack/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeStudyDir lays out a PDF-only input folder so the full pipeline
// runs without external converter engines.
func writeStudyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WritePDF(t, filepath.Join(dir, "t-14-1-1.pdf"),
		[]string{"Table 14.1.1", "Demographics", "Safety Population"})
	testutil.WritePDF(t, filepath.Join(dir, "l-16-2-1.pdf"),
		[]string{"Listing 16.2.1", "Adverse Events"})
	testutil.WritePDF(t, filepath.Join(dir, "f-9-1.pdf"),
		[]string{"Figure 9.1", "Kaplan-Meier Plot"})
	return dir
}

func TestPrepare(t *testing.T) {
	dir := writeStudyDir(t)
	// Files the scan must skip or surface without titles.
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.WritePDF(t, filepath.Join(dir, "untitled.pdf"), []string{"Some Header", "No Keyword Anywhere", "At All"})

	res, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Scanned != 5 {
		t.Errorf("scanned = %d, want 5", res.Scanned)
	}
	if res.Failed != 1 {
		t.Errorf("failed = %d, want 1", res.Failed)
	}
	if res.Invalid != 1 {
		t.Errorf("invalid = %d, want 1", res.Invalid)
	}

	rows, err := ledger.Read(res.LedgerPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("ledger has %d rows, want 5", len(rows))
	}

	byFile := make(map[string]ledger.Row, len(rows))
	for _, r := range rows {
		byFile[r.File] = r
	}
	if got := byFile["t-14-1-1.pdf"].Title; got != "Table 14.1.1: Demographics - Safety Population" {
		t.Errorf("table title = %q", got)
	}
	if byFile["broken.pdf"].Include {
		t.Error("unreadable document must be written excluded")
	}
	if r := byFile["untitled.pdf"]; r.Title != "" || !r.Include {
		t.Errorf("keywordless document row = %+v", r)
	}
	// Class ordering: the table comes before the listing and figure.
	if rows[0].File != "t-14-1-1.pdf" {
		t.Errorf("first row = %q, want the table", rows[0].File)
	}
}

func TestPrepare_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()}); err == nil {
		t.Fatal("expected error for folder without documents")
	}
}

func TestFinalize_EndToEnd(t *testing.T) {
	dir := writeStudyDir(t)
	if _, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()}); err != nil {
		t.Fatal(err)
	}

	res, err := Finalize(context.Background(), FinalizeOptions{
		Dir:        dir,
		OutputName: "Tables_test.pdf",
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 3 || res.Failed != 0 || res.Excluded != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Bookmarks != 3 {
		t.Errorf("bookmarks = %d, want 3", res.Bookmarks)
	}
	if res.TocPages != 1 {
		t.Errorf("toc pages = %d, want 1", res.TocPages)
	}

	pages, err := api.PageCountFile(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	// One body page per document plus the TOC page.
	if pages != 4 {
		t.Errorf("final document has %d pages, want 4", pages)
	}

	// Intermediates must not survive the run.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if len(e.Name()) > 8 && e.Name()[:8] == ".tlfpack" {
			t.Errorf("intermediate left behind: %s", e.Name())
		}
	}
}

func TestFinalize_NoTOC(t *testing.T) {
	dir := writeStudyDir(t)
	if _, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()}); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.TOC.Enabled = false
	res, err := Finalize(context.Background(), FinalizeOptions{
		Dir:        dir,
		OutputName: "out.pdf",
		Config:     cfg,
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.TocPages != 0 {
		t.Errorf("toc pages = %d, want 0", res.TocPages)
	}
	pages, err := api.PageCountFile(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	if pages != 3 {
		t.Errorf("final document has %d pages, want 3", pages)
	}
}

func TestFinalize_LedgerViolationsFatal(t *testing.T) {
	dir := writeStudyDir(t)
	if _, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ledger.DefaultFileName)
	rows, err := ledger.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	rows[1].Sequence = rows[0].Sequence
	if err := ledger.Write(path, rows); err != nil {
		t.Fatal(err)
	}

	_, err = Finalize(context.Background(), FinalizeOptions{Dir: dir, Logger: testLogger()})
	var ve *ledger.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ledger.ValidationError, got %v", err)
	}
}

func TestFinalize_ZeroIncluded(t *testing.T) {
	dir := writeStudyDir(t)
	if _, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ledger.DefaultFileName)
	rows, err := ledger.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := range rows {
		rows[i].Include = false
	}
	if err := ledger.Write(path, rows); err != nil {
		t.Fatal(err)
	}

	if _, err := Finalize(context.Background(), FinalizeOptions{Dir: dir, Logger: testLogger()}); err == nil {
		t.Fatal("expected error for ledger with zero included documents")
	}
}

func TestFinalize_ReviewerEditsRespected(t *testing.T) {
	dir := writeStudyDir(t)
	if _, err := Prepare(context.Background(), PrepareOptions{Dir: dir, Logger: testLogger()}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ledger.DefaultFileName)
	rows, err := ledger.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	// Exclude the figure, retitle the table.
	for i := range rows {
		if rows[i].File == "f-9-1.pdf" {
			rows[i].Include = false
		}
		if rows[i].File == "t-14-1-1.pdf" {
			rows[i].Title = "Table 14.1.1: Corrected Title"
		}
	}
	if err := ledger.Write(path, rows); err != nil {
		t.Fatal(err)
	}

	res, err := Finalize(context.Background(), FinalizeOptions{
		Dir:        dir,
		OutputName: "out.pdf",
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 2 || res.Excluded != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.Bookmarks != 2 {
		t.Errorf("bookmarks = %d, want 2", res.Bookmarks)
	}
	pages, err := api.PageCountFile(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	if pages != 3 {
		t.Errorf("final document has %d pages, want 3", pages)
	}
}
