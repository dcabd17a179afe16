package fill

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/docquill/docquill/docx"
)

// twipsPerInch is the DOCX table width unit.
const twipsPerInch = 1440

func inchTwips(in float64) int {
	return int(math.Round(in * twipsPerInch))
}

// itemTableWidths are the column widths, in inches, applied to the items
// table: serial, item name, HSN, price/unit, GST %, GST amount, amount.
var itemTableWidths = []float64{0.5, 3.0, 0.7, 1.0, 0.8, 1.1, 1.1}

// numericHeaders name the item-table columns that hold money or percentages
// and should be right-aligned.
var numericHeaders = map[string]bool{
	"price/ unit":  true,
	"price/unit":   true,
	"gst (%)":      true,
	"gst%":         true,
	"gst (amount)": true,
	"gst amount":   true,
	"amount":       true,
}

// NormalizeLayout tidies the generated document: the rupee sign is bound to
// its amount with a no-break space, the items table gets fixed column widths
// with numeric columns right-aligned, and plain two-column info tables get a
// wide/narrow split.
func NormalizeLayout(doc *docx.Document) {
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs {
			if t := r.Text(); strings.Contains(t, "₹ ") {
				r.SetText(strings.ReplaceAll(t, "₹ ", "₹ "))
			}
		}
	}
	for _, t := range doc.Tables() {
		normalizeTable(t)
	}
}

func normalizeTable(t *docx.Table) {
	if len(t.Rows) == 0 {
		return
	}
	headers := cellTexts(t.Rows[0])
	if isItemTable(headers) {
		normalizeItemTable(t, headers)
		return
	}
	if len(headers) == 2 && len(t.Rows) >= 2 {
		t.SetColumnWidths([]int{inchTwips(3.8), inchTwips(2.3)})
	}
}

// isItemTable recognizes the line-items table by its header row.
func isItemTable(headers []string) bool {
	var hasName, hasAmount bool
	for _, h := range headers {
		switch {
		case strings.Contains(h, "item name"), strings.Contains(h, "itemname"):
			hasName = true
		case strings.Contains(h, "amount"):
			hasAmount = true
		}
	}
	return hasName && hasAmount
}

func normalizeItemTable(t *docx.Table, headers []string) {
	widths := make([]int, 0, len(itemTableWidths))
	for i, w := range itemTableWidths {
		if i >= len(headers) {
			break
		}
		widths = append(widths, inchTwips(w))
	}
	t.SetColumnWidths(widths)

	var numeric []int
	for i, h := range headers {
		if numericHeaders[h] {
			numeric = append(numeric, i)
		}
	}
	if len(numeric) == 0 && len(headers) >= 7 {
		// Header texts drifted from the template; fall back to the
		// standard positions of the numeric columns.
		numeric = []int{3, 4, 5, 6}
	}
	for _, row := range t.Rows[1:] {
		for _, ci := range numeric {
			if ci >= len(row.Cells) {
				continue
			}
			for _, p := range row.Cells[ci].Paragraphs() {
				p.SetAlignment("right")
			}
		}
	}
}

func cellTexts(row *docx.TableRow) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		var b strings.Builder
		for _, p := range c.Paragraphs() {
			b.WriteString(p.Text())
		}
		out[i] = strings.ToLower(strings.TrimSpace(b.String()))
	}
	return out
}

var reHighlight = regexp.MustCompile(`<w:highlight\b[^>]*/>`)

// ClearHighlights strips every highlight node from the document so the
// placeholder marking never survives into the rendered output.
func ClearHighlights(doc *docx.Document) error {
	if err := doc.Flush(); err != nil {
		return fmt.Errorf("clear highlights: %w", err)
	}
	for _, pt := range doc.Parts() {
		data := reHighlight.ReplaceAll(pt.Data(), nil)
		pt.SetData(data)
	}
	return nil
}
