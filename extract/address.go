package extract

import (
	"regexp"
	"strings"
)

// addressStrategies is the cascade for the Address field. A single strategy
// suffices: the block collector subsumes the inline and multi-line forms.
var addressStrategies = []strategy{
	{"premises-block", addressPremisesBlock},
}

// addressLabels are the variants introducing the installation address.
var addressLabels = []string{
	"address of premises for installation",
	"address of premises",
	"installation address",
}

// maxAddressLines bounds the block collected under the address label.
const maxAddressLines = 10

var (
	reSectionHeader = regexp.MustCompile(`^\d+[.)]\s`)
	reDistrict      = regexp.MustCompile(`(?i)^district\s*[:\-]\s*(.*)`)
	reState         = regexp.MustCompile(`(?i)^state\s*[:\-]\s*(.*)`)
	rePincode       = regexp.MustCompile(`(?i)^pin\s*code\s*[:\-]\s*(.*)|^pincode\s*[:\-]\s*(.*)`)
)

// addressPremisesBlock locates the address label, collects the following
// block, picks out the District/State/PIN Code sub-fields and composes a
// single comma-joined address.
func addressPremisesBlock(src *source) string {
	row, rest := -1, ""
	for i, line := range src.lines {
		for _, label := range addressLabels {
			if r, ok := afterLabel(line, label); ok {
				row, rest = i, r
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

	var block []string
	if rest != "" {
		block = append(block, rest)
	}
	for i := row + 1; i <= row+maxAddressLines && i < len(src.lines); i++ {
		line := src.lines[i]
		if stopsAddressBlock(line) {
			break
		}
		block = append(block, line)
	}

	var base, district, state, pincode string
	for _, line := range block {
		switch {
		case reDistrict.MatchString(line):
			if district == "" {
				district = reDistrict.FindStringSubmatch(line)[1]
			}
		case reState.MatchString(line):
			if state == "" {
				state = reState.FindStringSubmatch(line)[1]
			}
		case rePincode.MatchString(line):
			if pincode == "" {
				m := rePincode.FindStringSubmatch(line)
				if m[1] != "" {
					pincode = m[1]
				} else {
					pincode = m[2]
				}
			}
		default:
			if base == "" {
				base = line
			}
		}
	}

	var parts []string
	for _, p := range []string{base, district, state, pincode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return normalizeAddress(strings.Join(parts, ", "))
}

// stopsAddressBlock reports whether a line ends the address block: the next
// numbered section, the feasibility header, or a postal From/To line.
func stopsAddressBlock(line string) bool {
	if reSectionHeader.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "feasibility approval details") {
		return true
	}
	for _, w := range []string{"from", "to"} {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") {
			return true
		}
	}
	return false
}

var (
	reSpaceRuns    = regexp.MustCompile(`\s+`)
	reSpaceComma   = regexp.MustCompile(`\s+,`)
	reCommaRuns    = regexp.MustCompile(`,(\s*,)+`)
	reCommaNoSpace = regexp.MustCompile(`,(\S)`)
)

// normalizeAddress collapses whitespace and regularizes comma spacing: no
// space before a comma, exactly one after, no doubled commas.
func normalizeAddress(s string) string {
	s = reSpaceRuns.ReplaceAllString(s, " ")
	s = reSpaceComma.ReplaceAllString(s, ",")
	s = reCommaRuns.ReplaceAllString(s, ",")
	s = reCommaNoSpace.ReplaceAllString(s, ", $1")
	s = strings.Trim(s, " ,")
	return s
}
