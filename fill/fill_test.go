package fill

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/docquill/docquill/docx"
)

// buildDOCX assembles a minimal in-memory DOCX around the given body markup.
func buildDOCX(t *testing.T, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(contentTypes))

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + content + `</w:body>
</w:document>`
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(document))

	zw.Close()
	return buf.Bytes()
}

func openFixture(t *testing.T, content string) *docx.Document {
	t.Helper()
	doc, err := docx.OpenBytes(buildDOCX(t, content))
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	return doc
}

func run(text string, highlighted bool) string {
	rpr := ""
	if highlighted {
		rpr = `<w:rPr><w:highlight w:val="yellow"/></w:rPr>`
	}
	return `<w:r>` + rpr + `<w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func para(runs ...string) string {
	return `<w:p>` + strings.Join(runs, "") + `</w:p>`
}

func tr(cells ...string) string {
	return `<w:tr>` + strings.Join(cells, "") + `</w:tr>`
}

func tc(paras ...string) string {
	return `<w:tc>` + strings.Join(paras, "") + `</w:tc>`
}

func tbl(cols int, rows ...string) string {
	var grid strings.Builder
	for i := 0; i < cols; i++ {
		grid.WriteString(`<w:gridCol w:w="2000"/>`)
	}
	return `<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>` +
		`<w:tblGrid>` + grid.String() + `</w:tblGrid>` +
		strings.Join(rows, "") + `</w:tbl>`
}

func flushed(t *testing.T, doc *docx.Document) string {
	t.Helper()
	if err := doc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return doc.Text()
}

func TestRenderDate(t *testing.T) {
	if got := RenderDate("2025-03-07"); got != "07/03/2025" {
		t.Errorf("RenderDate = %q, want %q", got, "07/03/2025")
	}
	if got := RenderDate("not a date"); got != "not a date" {
		t.Errorf("RenderDate passthrough = %q, want input unchanged", got)
	}
}

func TestValidityDate(t *testing.T) {
	if got := ValidityDate("2025-06-01", 30); got != "2025-07-01" {
		t.Errorf("ValidityDate = %q, want %q", got, "2025-07-01")
	}
	if got := ValidityDate("junk", 30); got != "" {
		t.Errorf("ValidityDate = %q, want empty for bad input", got)
	}
}

func TestSafeFilename(t *testing.T) {
	got := SafeFilename(`MIERAE/25-26/0793  draft?`)
	if got != "MIERAE-25-26-0793 draft-" {
		t.Errorf("SafeFilename = %q", got)
	}
}

func TestQuotationFieldValues(t *testing.T) {
	q := Quotation{
		CustomerName:    "Asha Rao",
		Mobile:          "9876543210",
		Location:        "12 MG Road\nIndiranagar",
		DateOfQuotation: "2025-06-01",
	}
	fv := q.FieldValues()
	if fv["customer name"] != "Asha Rao" {
		t.Errorf("customer name = %q", fv["customer name"])
	}
	if fv["location"] != "12 MG Road Indiranagar" {
		t.Errorf("location = %q, want newlines folded", fv["location"])
	}
	if fv["date of quotation"] != "01/06/2025" {
		t.Errorf("date of quotation = %q", fv["date of quotation"])
	}
	if v, ok := lookupValue(fv, "mobile number"); !ok || v != "9876543210" {
		t.Errorf("mobile number alias = %q, %v", v, ok)
	}
}
