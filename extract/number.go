package extract

import (
	"regexp"
	"strings"
)

// numberStrategies is the fallback cascade for the Number (phone) field.
var numberStrategies = []strategy{
	{"label-row", numberLabelRow},
	{"global-token", numberGlobalToken},
}

// numberLabels are the label variants introducing a phone number.
var numberLabels = []string{
	"mobile no", "mobile number", "contact no", "contact number",
	"phone no", "phone number", "mobile", "phone",
}

// numberSkipWords mark a nearby line as some other field's label row, not a
// bare value line.
var numberSkipWords = []string{
	":", "email", "consumer", "category", "address", "application",
	"reference", "discom", "particulars", "details",
}

var (
	// A digit run of 8-13 digits, allowing space/dash group separators.
	reDigitRun = regexp.MustCompile(`\+?\d[\d\s\-]{6,14}\d`)

	reBareNumber = regexp.MustCompile(`\b\d{10,13}\b`)
)

// numberLabelRow finds a phone label's line, extracts a digit run from its
// remainder, and failing that scans the next few lines for a bare value.
func numberLabelRow(src *source) string {
	for i, line := range src.lines {
		row := -1
		var rest string
		for _, label := range numberLabels {
			if r, ok := afterLabel(line, label); ok {
				row, rest = i, r
				break
			}
		}
		if row == -1 {
			continue
		}
		if v := pickDigitRun(rest); v != "" {
			return v
		}
		for j := row + 1; j <= row+4 && j < len(src.lines); j++ {
			if looksLikeOtherLabel(src.lines[j]) {
				continue
			}
			if v := pickDigitRun(src.lines[j]); v != "" {
				return v
			}
		}
		return ""
	}
	return ""
}

// numberGlobalToken is the last resort: any standalone 10-13 digit token in
// the whole text, preferring an exact 10-digit one.
func numberGlobalToken(src *source) string {
	tokens := reBareNumber.FindAllString(src.joined, -1)
	if len(tokens) == 0 {
		return ""
	}
	best := tokens[0]
	for _, tok := range tokens {
		if len(tok) == 10 {
			return normalizeNumber(tok)
		}
		if len(tok) > len(best) {
			best = tok
		}
	}
	return normalizeNumber(best)
}

func looksLikeOtherLabel(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range numberSkipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// pickDigitRun extracts the best 8-13 digit run from a line, preferring a
// run of exactly ten digits when several are present.
func pickDigitRun(line string) string {
	var candidates []string
	for _, m := range reDigitRun.FindAllString(line, -1) {
		digits := stripNonDigits(m)
		if len(digits) >= 8 && len(digits) <= 13 {
			candidates = append(candidates, digits)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	for _, c := range candidates {
		if len(c) == 10 {
			return normalizeNumber(c)
		}
	}
	return normalizeNumber(candidates[0])
}

// normalizeNumber strips everything but digits and keeps the last ten when
// a country prefix pads the value.
func normalizeNumber(s string) string {
	digits := stripNonDigits(s)
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
