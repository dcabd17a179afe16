package preview

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/docquill/docquill/docx"
)

func openFixture(t *testing.T, content string) *docx.Document {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`))

	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + content + `</w:body>
</w:document>`))
	zw.Close()

	doc, err := docx.OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	return doc
}

func render(t *testing.T, doc *docx.Document) string {
	t.Helper()
	var out bytes.Buffer
	if err := Render(doc, &out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out.String()
}

func TestRenderParagraphs(t *testing.T) {
	doc := openFixture(t,
		`<w:p><w:r><w:t>Quotation for Asha Rao</w:t></w:r></w:p>`+
			`<w:p><w:r><w:rPr><w:highlight w:val="yellow"/></w:rPr><w:t>unfilled</w:t></w:r></w:p>`)

	got := render(t, doc)
	if !strings.Contains(got, "<p>Quotation for Asha Rao</p>") {
		t.Errorf("output = %q, want plain paragraph", got)
	}
	if !strings.Contains(got, "<mark>unfilled</mark>") {
		t.Errorf("output = %q, want highlighted run marked", got)
	}
}

func TestRenderEscapesText(t *testing.T) {
	doc := openFixture(t, `<w:p><w:r><w:t>Shah &amp; Sons &lt;Pvt&gt;</w:t></w:r></w:p>`)

	got := render(t, doc)
	if !strings.Contains(got, "Shah &amp; Sons &lt;Pvt&gt;") {
		t.Errorf("output = %q, want markup-significant characters escaped", got)
	}
}

func TestRenderTable(t *testing.T) {
	doc := openFixture(t,
		`<w:tbl><w:tblPr/><w:tblGrid><w:gridCol w:w="2000"/></w:tblGrid>`+
			`<w:tr><w:tc><w:p><w:r><w:t>Amount</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	got := render(t, doc)
	for _, want := range []string{"<table>", "<tr>", "<td>", "<p>Amount</p>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want %s", got, want)
		}
	}
}

func TestRenderAlignmentClass(t *testing.T) {
	doc := openFixture(t,
		`<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:t>1,440</w:t></w:r></w:p>`)

	got := render(t, doc)
	if !strings.Contains(got, `<p class="right">1,440</p>`) {
		t.Errorf("output = %q, want right-aligned class", got)
	}
}
