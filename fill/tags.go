package fill

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/docquill/docquill/docx"
)

// TagMap maps bracket tag names ("Date", "Name") to their replacement text.
// Tags appear in templates as [Date]; the populator accepts them intact,
// split across formatting boundaries, or carried inside highlighted runs.
type TagMap map[string]string

// TagNames is the fixed tag vocabulary in substitution order.
var TagNames = []string{"Date", "Name", "Address", "Number"}

// splitTagPatterns matches a bracket tag whose characters are interleaved
// with markup, as word processors produce when a tag was typed across
// formatting changes: every character of "[Date]" may be followed by any
// number of complete XML elements or tags before the next character.
var splitTagPatterns = func() map[string]*regexp.Regexp {
	pats := make(map[string]*regexp.Regexp, len(TagNames))
	for _, name := range TagNames {
		var b strings.Builder
		b.WriteString(regexp.QuoteMeta("["))
		for _, c := range name {
			b.WriteString(`(?:<[^>]*>)*`)
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
		b.WriteString(`(?:<[^>]*>)*`)
		b.WriteString(regexp.QuoteMeta("]"))
		pats[name] = regexp.MustCompile(b.String())
	}
	return pats
}()

// PopulateTags replaces every bracket tag in the document with its value.
//
// Three passes run in order. The raw pass edits each part's markup directly
// so split tags are found regardless of run structure, then repairs the
// character-spacing artifacts that splitting leaves behind. The run pass
// re-reads the tree and substitutes within each contiguous group of
// highlighted runs. The paragraph pass is a last resort: when a tag is still
// visible only in the concatenated paragraph text, the whole substituted text
// is written into the first run and the rest are blanked.
func PopulateTags(doc *docx.Document, tags TagMap) error {
	if err := doc.Flush(); err != nil {
		return fmt.Errorf("populate tags: %w", err)
	}
	for _, pt := range doc.Parts() {
		data := pt.Data()
		out := substituteRawTags(data, tags)
		if !bytes.Equal(out, data) {
			out = repairSplitArtifacts(out)
			pt.SetData(out)
		}
	}

	for _, pt := range doc.Parts() {
		for _, p := range docx.Flatten(pt.Blocks()) {
			populateRunTags(p, tags)
		}
	}
	if err := doc.Flush(); err != nil {
		return fmt.Errorf("populate tags: %w", err)
	}

	for _, pt := range doc.Parts() {
		for _, p := range docx.Flatten(pt.Blocks()) {
			populateParagraphTags(p, tags)
		}
	}
	if err := doc.Flush(); err != nil {
		return fmt.Errorf("populate tags: %w", err)
	}
	return nil
}

// substituteRawTags replaces intact and split bracket tags in raw part
// markup. Values are XML-escaped; the split form collapses any markup
// interleaved with the tag characters, which is what reunites a placeholder
// that had been broken into several runs.
func substituteRawTags(data []byte, tags TagMap) []byte {
	for _, name := range TagNames {
		val, ok := tags[name]
		if !ok {
			continue
		}
		escaped := escapeXML(val)
		data = bytes.ReplaceAll(data, []byte("["+name+"]"), escaped)
		data = splitTagPatterns[name].ReplaceAllFunc(data, func([]byte) []byte {
			return escaped
		})
	}
	return data
}

var (
	reJcDistribute = regexp.MustCompile(`<w:jc\s+w:val="(?:distribute|thaiDistribute)"\s*/>`)
	reCharSpacing  = regexp.MustCompile(`<w:spacing\s+w:val="-?\d+"\s*/>`)
	reKerning      = regexp.MustCompile(`<w:kern\s+w:val="\d+"\s*/>`)
	reDrawingSpc   = regexp.MustCompile(`(<a:(?:rPr|defRPr|endParaRPr)\b[^>]*?)\s+spc="-?\d+"`)
)

// repairSplitArtifacts removes the cosmetic leftovers of split-tag
// substitution: distributed justification becomes left, character spacing
// and kerning nodes are dropped, and the drawing-layer spacing attribute is
// stripped. Only parts where a substitution happened are repaired.
func repairSplitArtifacts(data []byte) []byte {
	data = reJcDistribute.ReplaceAll(data, []byte(`<w:jc w:val="left"/>`))
	data = reCharSpacing.ReplaceAll(data, nil)
	data = reKerning.ReplaceAll(data, nil)
	data = reDrawingSpc.ReplaceAll(data, []byte("$1"))
	return data
}

// populateRunTags substitutes tags within each contiguous group of
// highlighted runs. The group's concatenated text is matched so a tag split
// across highlighted runs is still found; the result lands in the group's
// first run and the rest are blanked.
func populateRunTags(p *docx.Paragraph, tags TagMap) {
	runs := p.Runs
	for i := 0; i < len(runs); {
		if !runs[i].Highlighted {
			i++
			continue
		}
		j := i
		var b strings.Builder
		for j < len(runs) && runs[j].Highlighted {
			b.WriteString(runs[j].Text())
			j++
		}
		group := b.String()
		replaced := applyTags(group, tags)
		if replaced != group {
			runs[i].SetText(replaced)
			for k := i + 1; k < j; k++ {
				runs[k].SetText("")
			}
		}
		i = j
	}
}

// populateParagraphTags substitutes tags visible only in the concatenated
// paragraph text, collapsing the paragraph's runs into the first one.
func populateParagraphTags(p *docx.Paragraph, tags TagMap) {
	if len(p.Runs) == 0 {
		return
	}
	full := p.Text()
	replaced := applyTags(full, tags)
	if replaced == full {
		return
	}
	p.Runs[0].SetText(replaced)
	for _, r := range p.Runs[1:] {
		r.SetText("")
	}
}

// applyTags replaces every known tag in plain text, in vocabulary order.
func applyTags(s string, tags TagMap) string {
	for _, name := range TagNames {
		if val, ok := tags[name]; ok {
			s = strings.ReplaceAll(s, "["+name+"]", val)
		}
	}
	return s
}

func escapeXML(s string) []byte {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.Bytes()
}
