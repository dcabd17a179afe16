package docx

// Flatten returns every paragraph reachable from the given blocks in walker
// order: block-level paragraphs first, then for each table (in order) every
// row's every cell's paragraphs, and for each cell every nested table's
// paragraphs, recursively. It never fails: missing tables or paragraphs just
// shorten the result. Flatten mutates nothing and is safe to call repeatedly.
func Flatten(blocks []Block) []*Paragraph {
	var paras []*Paragraph
	var tables []*Table

	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			paras = append(paras, v)
		case *Table:
			tables = append(tables, v)
		}
	}

	for _, t := range tables {
		paras = append(paras, flattenTable(t)...)
	}
	return paras
}

func flattenTable(t *Table) []*Paragraph {
	var out []*Paragraph
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			out = append(out, cell.Paragraphs()...)
			for _, nested := range cell.Tables() {
				out = append(out, flattenTable(nested)...)
			}
		}
	}
	return out
}
