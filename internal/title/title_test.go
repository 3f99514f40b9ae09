package title

import "testing"

func TestValidate_KeywordFirstLine(t *testing.T) {
	c := Validate([]string{"Table 14.1.1", "Demographics", "Safety Population"}, 3)
	if !c.Valid {
		t.Fatal("expected valid candidate")
	}
	want := "Table 14.1.1: Demographics - Safety Population"
	if got := c.Bookmark(); got != want {
		t.Errorf("Bookmark() = %q, want %q", got, want)
	}
}

func TestValidate_KeywordNotOnFirstLine(t *testing.T) {
	c := Validate([]string{"Protocol Summary", "Listing 16.2.1 AE Listing"}, 3)
	if !c.Valid {
		t.Fatal("expected valid candidate")
	}
	if len(c.Lines) == 0 || c.Lines[0] != "Listing 16.2.1 AE Listing" {
		t.Errorf("title starts at %q, want keyword line", c.Lines)
	}
}

func TestValidate_NoKeywordInWindow(t *testing.T) {
	c := Validate([]string{"Study XYZ-123", "Sponsor Confidential", "Page 1 of 10", "Table 14.1.1"}, 3)
	if c.Valid {
		t.Fatalf("expected invalid candidate, got %v", c.Lines)
	}
	if c.Bookmark() != "" {
		t.Errorf("invalid candidate should have empty title, got %q", c.Bookmark())
	}
}

func TestValidate_BlankLinesDoNotConsumeWindow(t *testing.T) {
	c := Validate([]string{"", "", "", "Figure 9.1", "Kaplan-Meier Plot"}, 3)
	if !c.Valid {
		t.Fatal("blank lines must not consume the scan window")
	}
	if c.Lines[0] != "Figure 9.1" {
		t.Errorf("got %v", c.Lines)
	}
}

func TestValidate_TitleTruncatedAtDocumentEnd(t *testing.T) {
	c := Validate([]string{"Appendix 2"}, 3)
	if !c.Valid {
		t.Fatal("expected valid candidate")
	}
	if got := c.Bookmark(); got != "Appendix 2" {
		t.Errorf("Bookmark() = %q, want %q", got, "Appendix 2")
	}
}

func TestValidate_CaseInsensitive(t *testing.T) {
	c := Validate([]string{"TABLE 14.1.1"}, 3)
	if !c.Valid {
		t.Fatal("keyword match must be case-insensitive")
	}
}

func TestValidate_NoteSuffixStripped(t *testing.T) {
	c := Validate([]string{"Table 14.1.1 Note: draft only", "Demographics"}, 3)
	if !c.Valid {
		t.Fatal("expected valid candidate")
	}
	if c.Lines[0] != "Table 14.1.1" {
		t.Errorf("line 1 = %q, want note suffix stripped", c.Lines[0])
	}
}

func TestValidate_RejectsArtifactContinuationLines(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"footnote marker", "See [1] for details"},
		{"all caps artifact", "CONFIDENTIAL"},
		{"starred line", "* p < 0.05"},
		{"note line", "Note: preliminary data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Validate([]string{"Table 14.1.1", tc.line}, 3)
			if !c.Valid {
				t.Fatal("keyword line should still validate")
			}
			if len(c.Lines) != 1 {
				t.Errorf("artifact line kept: %v", c.Lines)
			}
		})
	}
}

func TestValidate_EmptyInput(t *testing.T) {
	if c := Validate(nil, 3); c.Valid {
		t.Fatal("expected invalid candidate for no lines")
	}
}
