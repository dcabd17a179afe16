package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateStrategies is the fallback cascade for the Date field.
var dateStrategies = []strategy{
	{"label-inline", dateLabelInline},
	{"label-next-line", dateLabelNextLine},
	{"header-phrase", dateHeaderPhrase},
}

var (
	// A date token: numeric day/month/year with /, -, or . separators, or
	// a spelled-out month form like "7 March 2025".
	reDateToken = regexp.MustCompile(`\d{1,4}[./-]\d{1,2}[./-]\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4}`)

	reDateLabelLine = regexp.MustCompile(`(?i)\bdate\b[^:\n-]*[:\-](.*)`)

	reDateHeader = regexp.MustCompile(`(?i)(?:granted\s+on\s+)?date\s*:\s*(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`)

	reLooseDate = regexp.MustCompile(`(\d{1,4})\D+(\d{1,2})\D+(\d{2,4})`)
)

// dateLabelInline finds a "Date ... : value" line and takes the date token
// from its remainder.
func dateLabelInline(src *source) string {
	for _, line := range src.lines {
		m := reDateLabelLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if tok := reDateToken.FindString(m[1]); tok != "" {
			return normalizeDate(tok)
		}
	}
	return ""
}

// dateLabelNextLine handles a label on its own line with the value below it.
func dateLabelNextLine(src *source) string {
	for i, line := range src.lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "date") {
			continue
		}
		if reDateToken.MatchString(line) {
			continue // inline form, handled by the previous strategy
		}
		if i+1 < len(src.lines) {
			if tok := reDateToken.FindString(src.lines[i+1]); tok != "" {
				return normalizeDate(tok)
			}
		}
	}
	return ""
}

// dateHeaderPhrase matches header sentences like "granted on date: 07/03/2025".
func dateHeaderPhrase(src *source) string {
	if m := reDateHeader.FindStringSubmatch(src.joined); m != nil {
		return normalizeDate(m[1])
	}
	return ""
}

// dateLayouts are the accepted input forms, tried in order.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"2 Jan 2006",
	"2 January 2006",
}

// normalizeDate re-emits a raw date canonically as DD-MM-YYYY. Unknown
// patterns fall back to a loose three-group numeric reassembly; if even that
// fails the raw text passes through so a human sees what was found.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02-01-2006")
		}
	}
	if m := reLooseDate.FindStringSubmatch(raw); m != nil {
		day, month, year := m[1], m[2], m[3]
		if len(day) == 4 {
			day, year = year, day // year-first form
		}
		if len(year) == 2 {
			year = "20" + year
		}
		return fmt.Sprintf("%s-%s-%s", pad2(day), pad2(month), year)
	}
	return raw
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
