package extract

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// maxCenteredLines caps how many centered paragraphs the RTF adapter keeps.
// TLF title blocks are reliably centered while body text is not, so the
// first few centered lines carry the whole title signal.
const maxCenteredLines = 3

type rtfAdapter struct{}

func (a *rtfAdapter) Extract(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(string(data[:min(len(data), 5)]), `{\rtf`) {
		return nil, fmt.Errorf("not an RTF file")
	}
	return centeredLines(data, maxCenteredLines), nil
}

// skipDestinations are RTF groups that never contain title text.
var skipDestinations = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"themedata":  true,
	"datastore":  true,
	"xmlnstbl":   true,
}

// centeredLines walks the RTF token stream and collects the text of
// center-aligned paragraphs, up to limit, in document order. Non-centered
// paragraphs are skipped entirely.
func centeredLines(data []byte, limit int) []string {
	var (
		lines    []string
		para     strings.Builder
		centered bool
		skipTo   int // group depth below which we are inside a skip destination
		depth    int
	)
	skipTo = -1

	flush := func() {
		text := cleanRTFLine(para.String())
		para.Reset()
		if centered && text != "" && len(lines) < limit {
			lines = append(lines, text)
		}
	}

	i := 0
	for i < len(data) {
		c := data[i]
		switch c {
		case '{':
			depth++
			i++
			// Ignorable destination: {\*\word ...}
			if skipTo < 0 && i+1 < len(data) && data[i] == '\\' && data[i+1] == '*' {
				skipTo = depth
			}
		case '}':
			depth--
			if skipTo >= 0 && depth < skipTo {
				skipTo = -1
			}
			i++
		case '\\':
			word, param, consumed := readControl(data[i:])
			i += consumed
			if skipTo >= 0 {
				continue
			}
			switch word {
			case "qc":
				centered = true
			case "pard", "ql", "qr", "qj":
				flush()
				centered = false
			case "par", "row", "cell", "line", "sect":
				flush()
			case "tab":
				para.WriteByte(' ')
			case "'":
				// \'hh bytes are codepage-encoded; clinical RTF output is
				// cp1252, where 0x80..0x9F hold punctuation like en dashes.
				if n, err := strconv.ParseInt(string(param), 16, 32); err == nil {
					para.WriteRune(charmap.Windows1252.DecodeByte(byte(n)))
				}
			case "u":
				if n, err := strconv.Atoi(string(param)); err == nil {
					if n < 0 {
						n += 65536
					}
					para.WriteRune(rune(n))
					// Skip the substitute character following \uN.
					if i < len(data) && data[i] != '\\' && data[i] != '{' && data[i] != '}' {
						i++
					}
				}
			case "\\", "{", "}":
				para.WriteString(word)
			default:
				if skipDestinations[word] {
					skipTo = depth
				}
			}
		case '\r', '\n':
			i++
		default:
			if skipTo < 0 {
				para.WriteByte(c)
			}
			i++
		}
		if len(lines) >= limit {
			break
		}
	}
	flush()
	return lines
}

// readControl parses a control word or symbol starting at data[0] == '\\'.
// It returns the word, its parameter text, and the bytes consumed.
func readControl(data []byte) (word string, param []byte, consumed int) {
	i := 1
	if i >= len(data) {
		return "", nil, 1
	}
	c := data[i]
	// Control symbol: single non-alphabetic character.
	if !isRTFAlpha(c) {
		i++
		switch c {
		case '\'':
			// \'hh hex escape carries a two-digit parameter.
			end := i
			for end < len(data) && end < i+2 && isHexDigit(data[end]) {
				end++
			}
			return "'", data[i:end], end
		case '\\', '{', '}':
			return string(c), nil, i
		default:
			return string(c), nil, i
		}
	}
	// Control word: letters then optional signed integer parameter.
	start := i
	for i < len(data) && isRTFAlpha(data[i]) {
		i++
	}
	word = string(data[start:i])
	pStart := i
	if i < len(data) && (data[i] == '-' || unicode.IsDigit(rune(data[i]))) {
		i++
		for i < len(data) && unicode.IsDigit(rune(data[i])) {
			i++
		}
	}
	param = data[pStart:i]
	// A single space terminates the control word and is consumed with it.
	if i < len(data) && data[i] == ' ' {
		i++
	}
	return word, param, i
}

func isRTFAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// cleanRTFLine trims layout residue from an assembled paragraph and drops
// non-printable runes left by unmapped escapes.
func cleanRTFLine(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r != '�' && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
			sb.WriteRune(r)
		}
	}
	s = strings.TrimSpace(sb.String())
	s = strings.Trim(s, "-: ")
	return strings.Join(strings.Fields(s), " ")
}
