// Package preview renders a generated document as a standalone HTML page.
//
// The rendering is for on-screen review before the document is shared: body
// paragraphs and tables appear in order, highlighted runs (unfilled
// placeholders) are marked so a reviewer spots them immediately, and
// paragraph alignment is carried through. It is not a faithful layout
// engine; fonts, page breaks and images are out of its scope.
package preview

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/docquill/docquill/docx"
)

// Render writes an HTML page for the document to w.
func Render(doc *docx.Document, w io.Writer) error {
	page := buildPage(doc)
	if err := html.Render(w, page); err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	return nil
}

func buildPage(doc *docx.Document) *html.Node {
	root := elem(atom.Html, nil)
	head := elem(atom.Head, root)
	style := elem(atom.Style, head)
	text(style, pageCSS)

	body := elem(atom.Body, root)
	for _, b := range doc.Body() {
		switch blk := b.(type) {
		case *docx.Paragraph:
			body.AppendChild(paragraphNode(blk))
		case *docx.Table:
			body.AppendChild(tableNode(blk))
		}
	}
	page := &html.Node{Type: html.DocumentNode}
	page.AppendChild(root)
	return page
}

const pageCSS = `body{font-family:serif;max-width:48em;margin:2em auto}` +
	`mark{background:#ff0}` +
	`table{border-collapse:collapse;width:100%}` +
	`td{border:1px solid #999;padding:0.3em}` +
	`p.right{text-align:right}p.center{text-align:center}`

func paragraphNode(p *docx.Paragraph) *html.Node {
	n := elem(atom.P, nil)
	switch p.Alignment {
	case "right", "center":
		n.Attr = []html.Attribute{{Key: "class", Val: p.Alignment}}
	}
	for _, r := range p.Runs {
		if r.Text() == "" {
			continue
		}
		if r.Highlighted {
			mark := elem(atom.Mark, n)
			text(mark, r.Text())
		} else {
			text(n, r.Text())
		}
	}
	return n
}

func tableNode(t *docx.Table) *html.Node {
	tbl := elem(atom.Table, nil)
	for _, row := range t.Rows {
		tr := elem(atom.Tr, tbl)
		for _, cell := range row.Cells {
			td := elem(atom.Td, tr)
			for _, p := range cell.Paragraphs() {
				td.AppendChild(paragraphNode(p))
			}
			for _, nested := range cell.Tables() {
				td.AppendChild(tableNode(nested))
			}
		}
	}
	return tbl
}

func elem(a atom.Atom, parent *html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if parent != nil {
		parent.AppendChild(n)
	}
	return n
}

func text(parent *html.Node, s string) {
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}
