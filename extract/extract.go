// Package extract recovers structured fields from unstructured text.
//
// The input is plain text pulled out of an authority-issued letter or a
// table export, with no reliable layout: values appear after a label and a
// colon, in the next column of a whitespace-split table row, on the line
// below their label, or embedded in a header sentence. Each field is
// recovered by an ordered cascade of named strategies; the first strategy
// producing a plausible value wins, and a field with no plausible match
// stays empty rather than guessing.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Record is the result of one extraction: the four fields recognized in
// authority letters. Fields default to empty strings, never absent.
type Record struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Number  string `json:"number"`
}

// source is the shared view of the input text the strategies work over.
type source struct {
	joined string   // normalized text with newlines intact
	lines  []string // trimmed lines, empties removed
}

// strategy is one step of a field's fallback cascade. Strategies are pure:
// they read the source and either produce a value or report nothing found.
type strategy struct {
	name string
	fn   func(*source) string
}

// Extract runs every field cascade over the text and returns the record.
// The four extractions are independent; malformed input yields empty fields,
// never an error.
func Extract(text string) Record {
	src := newSource(text)
	return Record{
		Date:    runCascade(src, dateStrategies),
		Name:    runCascade(src, nameStrategies),
		Address: runCascade(src, addressStrategies),
		Number:  runCascade(src, numberStrategies),
	}
}

func runCascade(src *source, cascade []strategy) string {
	for _, s := range cascade {
		if v := s.fn(src); v != "" {
			return v
		}
	}
	return ""
}

func newSource(text string) *source {
	clean := normalizeText(text)
	var lines []string
	for _, l := range strings.Split(clean, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return &source{joined: clean, lines: lines}
}

// stripMarks folds the text to NFC with combining marks removed, so OCR
// output carrying stray accents still matches the plain-ASCII labels.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText flattens the encoding quirks of scanned-PDF text: carriage
// returns, no-break spaces, and compatibility forms (full-width digits,
// ligatures) that would otherwise defeat the label regexes.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, " ", " ")
	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}
	return text
}

// afterLabel returns the remainder of line once label (matched
// case-insensitively) and any following separator characters are consumed.
func afterLabel(line, label string) (string, bool) {
	idx := strings.Index(strings.ToLower(line), label)
	if idx == -1 {
		return "", false
	}
	rest := line[idx+len(label):]
	rest = strings.TrimLeft(rest, " \t:-.")
	return strings.TrimSpace(rest), true
}

// columnSplit splits a table-like row on runs of two or more spaces or tabs.
func columnSplit(line string) []string {
	var cols []string
	for _, f := range splitColumns(line) {
		if t := strings.TrimSpace(f); t != "" {
			cols = append(cols, t)
		}
	}
	return cols
}

func splitColumns(line string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(line) {
		if line[i] == '\t' || (line[i] == ' ' && i+1 < len(line) && line[i+1] == ' ') {
			out = append(out, line[start:i])
			for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
				i++
			}
			start = i
			continue
		}
		i++
	}
	out = append(out, line[start:])
	return out
}
