package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// parsePart walks the raw markup of one part with a token-level decoder,
// building the block tree while recording the byte span of every element the
// model may later rewrite. Tokens tile the input, so the offset before a token
// is its start and the decoder's input offset after it is its end; a synthetic
// EndElement (from a self-closing tag) consumes no bytes, which is how
// self-closing elements are detected.
func parsePart(data []byte, pt *Part) ([]Block, []*Paragraph, []*Table, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		body      []Block
		allParas  []*Paragraph
		allTables []*Table

		// container stack: body at the bottom, one entry per open table cell
		containers = []*[]Block{&body}
		tableStack []*Table

		curPara *Paragraph
		curRun  *Run

		// depth counters for content we deliberately do not model
		// (paragraphs inside text boxes, runs inside fallbacks)
		skipPara int
		skipRun  int
		skipTbl  int

		inPPr bool
		inRPr bool
		inT   bool

		last int64
	)

	top := func() *[]Block { return containers[len(containers)-1] }
	curTable := func() *Table {
		if len(tableStack) == 0 {
			return nil
		}
		return tableStack[len(tableStack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parsing %s: %w", pt.Name, err)
		}
		start := int(last)
		end := int(dec.InputOffset())
		last = dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != nsW {
				continue
			}
			switch t.Name.Local {
			case "p":
				if skipPara > 0 || curPara != nil {
					skipPara++
					continue
				}
				curPara = &Paragraph{
					part:         pt,
					elem:         span{start, -1},
					contentStart: end,
					closeStart:   -1,
					pprClose:     -1,
					jc:           span{-1, -1},
				}
			case "tbl":
				if skipPara > 0 || curPara != nil || skipTbl > 0 {
					skipTbl++
					continue
				}
				tbl := &Table{
					part:       pt,
					elem:       span{start, -1},
					tblPrClose: -1,
					grid:       span{-1, -1},
				}
				*top() = append(*top(), tbl)
				tableStack = append(tableStack, tbl)
				allTables = append(allTables, tbl)
			case "tr":
				if tbl := curTable(); tbl != nil && skipTbl == 0 {
					tbl.Rows = append(tbl.Rows, &TableRow{})
				}
			case "tc":
				if tbl := curTable(); tbl != nil && skipTbl == 0 && len(tbl.Rows) > 0 {
					row := tbl.Rows[len(tbl.Rows)-1]
					cell := &TableCell{}
					row.Cells = append(row.Cells, cell)
					containers = append(containers, &cell.Blocks)
				}
			case "tblGrid":
				if tbl := curTable(); tbl != nil && skipTbl == 0 && tbl.grid.Start < 0 {
					tbl.grid = span{start, -1}
				}
			case "tblLayout":
				if tbl := curTable(); tbl != nil && skipTbl == 0 && attrVal(t, "type") == "fixed" {
					tbl.fixedLayout = true
				}
			case "pPr":
				if curPara != nil && skipPara == 0 {
					inPPr = true
				}
			case "jc":
				if inPPr && curPara != nil {
					curPara.jc = span{start, -1}
					curPara.Alignment = attrVal(t, "val")
				}
			case "r":
				if curPara == nil || skipPara > 0 {
					continue
				}
				if curRun != nil {
					skipRun++
					continue
				}
				curRun = &Run{
					part:       pt,
					elem:       span{start, -1},
					closeStart: -1,
				}
			case "rPr":
				if curRun != nil && skipRun == 0 {
					inRPr = true
				}
			case "highlight":
				if inRPr && curRun != nil {
					if v := attrVal(t, "val"); v != "" && v != "none" {
						curRun.Highlighted = true
					}
				}
			case "t":
				if curRun != nil && skipRun == 0 {
					curRun.wt = append(curRun.wt, span{start, -1})
					inT = true
				}
			case "tab":
				if curRun != nil && skipRun == 0 && !inRPr {
					curRun.text += "\t"
				}
			case "br":
				if curRun != nil && skipRun == 0 {
					curRun.text += "\n"
				}
			}

		case xml.EndElement:
			if t.Name.Space != nsW {
				continue
			}
			selfClosed := start == end
			switch t.Name.Local {
			case "p":
				if skipPara > 0 {
					skipPara--
					continue
				}
				if curPara == nil {
					continue
				}
				curPara.elem.End = end
				if selfClosed {
					curPara.contentStart = -1
				} else {
					curPara.closeStart = start
				}
				*top() = append(*top(), curPara)
				allParas = append(allParas, curPara)
				curPara = nil
			case "tbl":
				if skipTbl > 0 {
					skipTbl--
					continue
				}
				if tbl := curTable(); tbl != nil {
					tbl.elem.End = end
					tableStack = tableStack[:len(tableStack)-1]
				}
			case "tc":
				if skipTbl == 0 && len(containers) > 1 {
					containers = containers[:len(containers)-1]
				}
			case "tblGrid":
				if tbl := curTable(); tbl != nil && skipTbl == 0 && tbl.grid.Start >= 0 && tbl.grid.End < 0 {
					tbl.grid.End = end
				}
			case "tblPr":
				if tbl := curTable(); tbl != nil && skipTbl == 0 && tbl.tblPrClose < 0 && !selfClosed {
					tbl.tblPrClose = start
				}
			case "pPr":
				if inPPr {
					inPPr = false
					if curPara != nil && !selfClosed {
						curPara.pprClose = start
					}
				}
			case "jc":
				if curPara != nil && curPara.jc.Start >= 0 && curPara.jc.End < 0 {
					curPara.jc.End = end
				}
			case "r":
				if skipRun > 0 {
					skipRun--
					continue
				}
				if curRun == nil {
					continue
				}
				curRun.elem.End = end
				if !selfClosed {
					curRun.closeStart = start
				}
				if curPara != nil {
					curRun.part = pt
					curPara.Runs = append(curPara.Runs, curRun)
				}
				curRun = nil
			case "rPr":
				inRPr = false
			case "t":
				if inT && curRun != nil && len(curRun.wt) > 0 {
					curRun.wt[len(curRun.wt)-1].End = end
					inT = false
				}
			}

		case xml.CharData:
			if inT && curRun != nil && skipRun == 0 && skipPara == 0 {
				curRun.text += string(t)
			}
		}
	}

	return body, allParas, allTables, nil
}

// attrVal returns the value of the named attribute, ignoring its namespace.
func attrVal(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
