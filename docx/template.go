package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// span is a half-open byte range [Start, End) within a part's raw markup.
type span struct {
	Start int
	End   int
}

func (s span) valid() bool { return s.Start >= 0 && s.End >= s.Start }

// Block is an element of a document body or table cell: either a *Paragraph
// or a *Table, in document order.
type Block interface {
	block()
}

// Paragraph is an ordered sequence of runs. Its text view is derived from the
// runs and is never stored; the invariant is that Text() always equals the
// concatenation of the run texts.
type Paragraph struct {
	Runs []*Run

	// Alignment is the paragraph justification (left, right, center, both,
	// distribute, ...). Empty means inherited/default.
	Alignment string

	part         *Part
	elem         span // whole <w:p> element
	contentStart int  // offset just past the <w:p ...> start tag, -1 if self-closed
	closeStart   int  // offset of the </w:p> tag, -1 if self-closed
	pprClose     int  // offset of the </w:pPr> tag, -1 if absent or self-closed
	jc           span // <w:jc .../> element, Start==-1 if absent

	pendingAlign   string
	pendingAppends []pendingRun
}

func (p *Paragraph) block() {}

type pendingRun struct {
	text        string
	highlighted bool
}

// Text returns the concatenated text of all runs in the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// SetAlignment stages a justification change for the paragraph. The change is
// applied on the next Flush.
func (p *Paragraph) SetAlignment(align string) {
	p.Alignment = align
	p.pendingAlign = align
}

// AppendRun stages a new run at the end of the paragraph. Last-resort
// placement for values with no existing run to land in.
func (p *Paragraph) AppendRun(text string, highlighted bool) {
	p.pendingAppends = append(p.pendingAppends, pendingRun{text: text, highlighted: highlighted})
}

// Run is an atomic span of uniformly styled text.
type Run struct {
	// Highlighted reports whether the run carries a highlight marker, the
	// template convention for a placeholder destined to be overwritten.
	Highlighted bool

	part       *Part
	elem       span   // whole <w:r> element
	closeStart int    // offset of the </w:r> tag, -1 if self-closed
	wt         []span // every <w:t> child element, full element spans

	text    string
	pending *string
}

// Text returns the run's current text, including staged edits.
func (r *Run) Text() string {
	if r.pending != nil {
		return *r.pending
	}
	return r.text
}

// SetText stages a replacement of the run's text. The run's first <w:t> child
// receives the new value; any additional <w:t> children are removed. The
// change is applied on the next Flush.
func (r *Run) SetText(s string) {
	r.pending = &s
}

// Table is an ordered sequence of rows of cells.
type Table struct {
	Rows []*TableRow

	part        *Part
	elem        span
	tblPrClose  int  // offset of </w:tblPr>, -1 if absent
	grid        span // <w:tblGrid> element, Start==-1 if absent
	fixedLayout bool

	pendingWidths []int
	pendingFixed  bool
}

func (t *Table) block() {}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	Cells []*TableCell
}

// TableCell owns its paragraphs and any nested tables, in document order.
type TableCell struct {
	Blocks []Block
}

// Paragraphs returns the cell's own paragraphs (not those of nested tables).
func (c *TableCell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range c.Blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the tables nested directly inside the cell.
func (c *TableCell) Tables() []*Table {
	var out []*Table
	for _, b := range c.Blocks {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Text returns the cell text: paragraph texts joined by newlines.
func (c *TableCell) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// SetColumnWidths stages fixed column widths (in twips) for the table. The
// table grid is rewritten and the layout switched to fixed so the widths are
// respected by renderers.
func (t *Table) SetColumnWidths(twips []int) {
	t.pendingWidths = append([]int(nil), twips...)
	t.pendingFixed = true
}

// ColumnCount returns the number of columns in the widest row.
func (t *Table) ColumnCount() int {
	max := 0
	for _, row := range t.Rows {
		if len(row.Cells) > max {
			max = len(row.Cells)
		}
	}
	return max
}

// Part is one markup part of the package (word/document.xml, a header or a
// footer) together with its parsed block tree.
type Part struct {
	Name string

	data       []byte
	blocks     []Block
	paragraphs []*Paragraph // every paragraph in the part, stream order
	tables     []*Table     // every table in the part, including nested
	parseErr   error
}

// Data returns the part's current raw markup. Staged run edits are not
// reflected until Flush.
func (pt *Part) Data() []byte {
	return pt.data
}

// SetData replaces the part's raw markup wholesale and reparses it. A part
// whose new markup fails to parse keeps the data but exposes no blocks;
// substitution passes simply find nothing there.
func (pt *Part) SetData(data []byte) {
	pt.data = data
	pt.reparse()
}

// Blocks returns the part's top-level blocks in document order.
func (pt *Part) Blocks() []Block {
	return pt.blocks
}

// AllParagraphs returns every paragraph of the part in markup stream order,
// including paragraphs inside table cells.
func (pt *Part) AllParagraphs() []*Paragraph {
	return pt.paragraphs
}

func (pt *Part) reparse() {
	blocks, paras, tables, err := parsePart(pt.data, pt)
	if err != nil {
		pt.blocks, pt.paragraphs, pt.tables = nil, nil, nil
		pt.parseErr = err
		return
	}
	pt.blocks, pt.paragraphs, pt.tables = blocks, paras, tables
	pt.parseErr = nil
}

// edit is a pending splice of the raw markup.
type edit struct {
	at   span
	repl []byte
}

// flush applies all staged edits to the raw markup and reparses the part.
// Pointers into the part's previous tree are invalid afterwards.
func (pt *Part) flush() error {
	edits := pt.collectEdits()
	if len(edits) == 0 {
		return nil
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].at.Start < edits[j].at.Start })
	for i := 1; i < len(edits); i++ {
		if edits[i].at.Start < edits[i-1].at.End {
			return fmt.Errorf("overlapping edits in part %s at offset %d", pt.Name, edits[i].at.Start)
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(pt.data))
	pos := 0
	for _, e := range edits {
		if e.at.Start < pos || e.at.End > len(pt.data) {
			return fmt.Errorf("edit out of range in part %s", pt.Name)
		}
		buf.Write(pt.data[pos:e.at.Start])
		buf.Write(e.repl)
		pos = e.at.End
	}
	buf.Write(pt.data[pos:])

	pt.data = buf.Bytes()
	pt.reparse()
	return pt.parseErr
}

func (pt *Part) collectEdits() []edit {
	var edits []edit

	for _, p := range pt.paragraphs {
		for _, r := range p.Runs {
			if r.pending == nil {
				continue
			}
			text := *r.pending
			if len(r.wt) > 0 {
				edits = append(edits, edit{at: r.wt[0], repl: textElement(text)})
				for _, extra := range r.wt[1:] {
					edits = append(edits, edit{at: extra})
				}
			} else if r.closeStart >= 0 && text != "" {
				edits = append(edits, edit{at: span{r.closeStart, r.closeStart}, repl: textElement(text)})
			}
		}

		if p.pendingAlign != "" {
			jc := []byte(`<w:jc w:val="` + p.pendingAlign + `"/>`)
			switch {
			case p.jc.valid():
				edits = append(edits, edit{at: p.jc, repl: jc})
			case p.pprClose >= 0:
				edits = append(edits, edit{at: span{p.pprClose, p.pprClose}, repl: jc})
			case p.contentStart >= 0:
				repl := append(append([]byte("<w:pPr>"), jc...), []byte("</w:pPr>")...)
				edits = append(edits, edit{at: span{p.contentStart, p.contentStart}, repl: repl})
			}
		}

		if len(p.pendingAppends) > 0 && p.closeStart >= 0 {
			var sb bytes.Buffer
			for _, pr := range p.pendingAppends {
				sb.WriteString("<w:r>")
				if pr.highlighted {
					sb.WriteString(`<w:rPr><w:highlight w:val="yellow"/></w:rPr>`)
				}
				sb.Write(textElement(pr.text))
				sb.WriteString("</w:r>")
			}
			edits = append(edits, edit{at: span{p.closeStart, p.closeStart}, repl: sb.Bytes()})
		}
	}

	for _, t := range pt.tables {
		if len(t.pendingWidths) > 0 && t.grid.valid() {
			var sb bytes.Buffer
			sb.WriteString("<w:tblGrid>")
			for _, w := range t.pendingWidths {
				fmt.Fprintf(&sb, `<w:gridCol w:w="%d"/>`, w)
			}
			sb.WriteString("</w:tblGrid>")
			edits = append(edits, edit{at: t.grid, repl: sb.Bytes()})
		}
		if t.pendingFixed && !t.fixedLayout && t.tblPrClose >= 0 {
			edits = append(edits, edit{at: span{t.tblPrClose, t.tblPrClose}, repl: []byte(`<w:tblLayout w:type="fixed"/>`)})
		}
	}

	return edits
}

// textElement renders a <w:t> element with the given text, escaped, with
// whitespace preserved.
func textElement(text string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<w:t xml:space="preserve">`)
	// EscapeText cannot fail writing to a bytes.Buffer.
	xml.EscapeText(&buf, []byte(text))
	buf.WriteString(`</w:t>`)
	return buf.Bytes()
}
