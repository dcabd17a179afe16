package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// nameStrategies is the fallback cascade for the Name field.
var nameStrategies = []strategy{
	{"applicant-label", nameApplicantLabel},
	{"row-scan", nameRowScan},
	{"honorific", nameHonorific},
}

// nameLabels are the label variants that introduce the applicant's name.
var nameLabels = []string{
	"name of the applicant",
	"name of applicant",
	"applicant name",
	"name of consumer",
}

// forbiddenNameWords disqualify a candidate line: they mark it as belonging
// to some other field or to a label row.
var forbiddenNameWords = []string{
	"mobile", "phone", "email", "consumer", "category", "address",
	"application", "reference", "number", "no.", "capacity", "kwp",
	"kw", "discom",
}

// validName reports whether a candidate plausibly is a person's name: not a
// label for another field, and mostly letters.
func validName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, w := range forbiddenNameWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	letters, digits := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	return letters >= 2 && letters > digits
}

// nameApplicantLabel captures the value following a name label, on the same
// line or on the next one.
func nameApplicantLabel(src *source) string {
	for i, line := range src.lines {
		for _, label := range nameLabels {
			rest, ok := afterLabel(line, label)
			if !ok {
				continue
			}
			if validName(rest) {
				return rest
			}
			if i+1 < len(src.lines) && validName(src.lines[i+1]) {
				return src.lines[i+1]
			}
		}
	}
	return ""
}

// nameRowScan handles table exports: it finds the label's row, prefers the
// value cell on the same row, and otherwise searches nearby rows (five
// forward, then three back) for the first plausible name.
func nameRowScan(src *source) string {
	row := -1
	var label string
	for i, line := range src.lines {
		lower := strings.ToLower(line)
		for _, l := range nameLabels {
			if strings.Contains(lower, l) {
				row, label = i, l
				break
			}
		}
		if row != -1 {
			break
		}
	}
	if row == -1 {
		return ""
	}

	line := src.lines[row]
	if idx := strings.Index(line, ":"); idx != -1 {
		if v := strings.TrimSpace(line[idx+1:]); validName(v) {
			return v
		}
	}
	cols := columnSplit(line)
	for ci, col := range cols {
		if strings.Contains(strings.ToLower(col), label) && ci+1 < len(cols) {
			if validName(cols[ci+1]) {
				return cols[ci+1]
			}
		}
	}

	for i := row + 1; i <= row+5 && i < len(src.lines); i++ {
		if validName(src.lines[i]) {
			return src.lines[i]
		}
	}
	for i := row - 1; i >= row-3 && i >= 0; i-- {
		if validName(src.lines[i]) {
			return src.lines[i]
		}
	}
	return ""
}

var reHonorific = regexp.MustCompile(`(?:Shri|Smt)\.?\s+([A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*)*)`)

// nameHonorific falls back to an honorific-introduced name in running text.
func nameHonorific(src *source) string {
	if m := reHonorific.FindStringSubmatch(src.joined); m != nil {
		if v := strings.TrimSpace(m[1]); validName(v) {
			return v
		}
	}
	return ""
}
