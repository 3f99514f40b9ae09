package pipeline

import (
	"path/filepath"
	"strings"
	"time"
)

// Category infers the package category from the input folder name.
// Mixed or unrecognized folders fall back to the generic TLFs label.
func Category(dir string) string {
	name := strings.ToUpper(filepath.Base(filepath.Clean(dir)))
	switch {
	case strings.Contains(name, "TABLE"):
		return "Tables"
	case strings.Contains(name, "LISTING"):
		return "Listings"
	case strings.Contains(name, "FIGURE"):
		return "Figures"
	}
	return "TLFs"
}

// OutputName builds the default final PDF name: {category}_{timestamp}.pdf.
func OutputName(dir string, now time.Time) string {
	return Category(dir) + "_" + now.Format("20060102_150405") + ".pdf"
}
