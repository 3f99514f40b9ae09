package extract

import (
	"errors"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name   string
		format Format
		ok     bool
	}{
		{"t14-1-1.rtf", FormatRTF, true},
		{"T14_1_1.RTF", FormatRTF, true},
		{"l16-2-1.docx", FormatDOCX, true},
		{"f9-1.pdf", FormatPDF, true},
		{"~$t14-1-1.docx", "", false},
		{"notes.txt", "", false},
		{"t14-1-1.rtf.bak", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			format, ok := DetectFormat(c.name)
			if ok != c.ok {
				t.Fatalf("DetectFormat(%q) ok = %v, want %v", c.name, ok, c.ok)
			}
			if format != c.format {
				t.Errorf("DetectFormat(%q) = %q, want %q", c.name, format, c.format)
			}
		})
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range []Format{FormatRTF, FormatDOCX, FormatPDF} {
		if ForFormat(f) == nil {
			t.Errorf("no adapter registered for %s", f)
		}
	}
	if ForFormat("ODT") != nil {
		t.Error("expected nil adapter for unsupported format")
	}
}

func TestLines_UnsupportedFormat(t *testing.T) {
	_, _, err := Lines("report.txt")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
}
