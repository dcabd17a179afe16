package fill

import (
	"strings"

	"github.com/docquill/docquill/docx"
)

// labelTerminators are the characters accepted after a label caption.
var labelTerminators = []string{":", "-"}

// InjectLabels walks every paragraph and writes the supplied values into the
// highlighted placeholder runs scoped to each known label. Paragraphs that
// carry both a state label and a pincode label are handled by a combined
// pass first, since their placeholders share one line and positional order is
// the only way to tell them apart.
func InjectLabels(paras []*docx.Paragraph, fv FieldValues) {
	state := fv["state"]
	pincode, _ := lookupValue(fv, "pincode")
	for _, p := range paras {
		// The combined pass does not exhaust the paragraph; the scoped
		// pass still runs so remaining labels are filled and the
		// state/pincode captions themselves get stripped.
		injectStatePincode(p, state, pincode)
		for _, label := range Vocabulary {
			value, ok := lookupValue(fv, label)
			if !ok {
				continue
			}
			injectLabel(p, label, value)
		}
	}
	clearResidualPlaceholders(paras)
}

// injectLabel substitutes value into the highlighted runs between the end of
// label and the start of the next known label (or end of paragraph). The
// first highlighted run in that window receives the value; any further
// highlighted runs in the window are blanked so stale placeholder fragments
// cannot survive. For customer info labels the label text itself is then
// stripped.
func injectLabel(p *docx.Paragraph, label, value string) {
	text := p.Text()
	lower := strings.ToLower(text)

	labelStart, labelEnd := -1, -1
	for _, term := range labelTerminators {
		if idx := strings.Index(lower, label+term); idx != -1 {
			labelStart = idx
			labelEnd = idx + len(label) + len(term)
			break
		}
	}
	if labelStart == -1 {
		return
	}

	// The window closes at the nearest other label occurrence after this
	// one, so a value can never bleed into a neighbouring field.
	next := len(text)
	for _, other := range Vocabulary {
		if other == label {
			continue
		}
		for _, term := range labelTerminators {
			idx := strings.Index(lower[labelEnd:], other+term)
			if idx == -1 {
				continue
			}
			if at := labelEnd + idx; at < next {
				next = at
			}
		}
	}

	pos := 0
	replaced := false
	for _, r := range p.Runs {
		rt := r.Text()
		begin, end := pos, pos+len(rt)
		pos = end
		if end <= labelEnd {
			continue
		}
		if begin >= next {
			break
		}
		if !r.Highlighted {
			continue
		}
		if !replaced {
			r.SetText(value)
			replaced = true
		} else {
			r.SetText("")
		}
	}

	if !stripLabels[label] {
		return
	}

	// Strip the caption: runs ending inside the label region are cleared,
	// a run straddling the label end keeps only its tail.
	pos = 0
	for _, r := range p.Runs {
		rt := r.Text()
		begin, end := pos, pos+len(rt)
		pos = end
		if end <= labelEnd && end > labelStart {
			r.SetText("")
		} else if begin < labelEnd && labelEnd < end {
			r.SetText(rt[labelEnd-begin:])
		}
	}
}

// injectStatePincode handles paragraphs that carry both a state and a
// pincode label. The highlighted runs are filled positionally (state first,
// pincode second); when fewer than two highlighted runs exist the pincode is
// written after its caption, preferring a highlighted run there, then any
// run, then a fresh appended run. Reports whether the paragraph matched.
func injectStatePincode(p *docx.Paragraph, state, pincode string) bool {
	lower := strings.ToLower(p.Text())
	hasState := strings.Contains(lower, "state:") || strings.Contains(lower, "state-")
	hasPin := strings.Contains(lower, "pincode") || strings.Contains(lower, "pin code")
	if !hasState || !hasPin {
		return false
	}

	values := []string{state, pincode}
	idx := 0
	for _, r := range p.Runs {
		if r.Highlighted && idx < len(values) {
			r.SetText(values[idx])
			idx++
		}
	}
	if idx >= len(values) || pincode == "" {
		return true
	}

	text := p.Text()
	lower = strings.ToLower(text)
	pinPos := -1
	for _, key := range []string{"pincode", "pin code"} {
		j := strings.Index(lower, key)
		if j == -1 {
			continue
		}
		j += len(key)
		for j < len(text) {
			if c := text[j]; c == ':' || c == '-' || c == ' ' {
				j++
				continue
			}
			if strings.HasPrefix(text[j:], " ") {
				j += len(" ")
				continue
			}
			break
		}
		pinPos = j
		break
	}
	if pinPos == -1 {
		return true
	}

	pos := 0
	var afterAny, afterHighlighted *docx.Run
	for _, r := range p.Runs {
		begin := pos
		pos += len(r.Text())
		if begin < pinPos {
			continue
		}
		if afterAny == nil {
			afterAny = r
		}
		if r.Highlighted && afterHighlighted == nil {
			afterHighlighted = r
		}
	}
	switch {
	case afterHighlighted != nil:
		afterHighlighted.SetText(pincode)
	case afterAny != nil:
		afterAny.SetText(pincode)
	default:
		p.AppendRun(pincode, false)
	}
	return true
}

// clearResidualPlaceholders blanks highlighted runs whose remaining text
// still begins with "replace". Template authors mark placeholders with
// instructions like "Replace with customer name"; any such run the injectors
// did not claim must not leak into the output.
func clearResidualPlaceholders(paras []*docx.Paragraph) {
	for _, p := range paras {
		for _, r := range p.Runs {
			if !r.Highlighted {
				continue
			}
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Text())), "replace") {
				r.SetText("")
			}
		}
	}
}
