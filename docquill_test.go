package docquill

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docquill/docquill/docx"
	"github.com/docquill/docquill/fill"
)

func buildTemplate(t *testing.T, content string) []byte {
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
	return buf.Bytes()
}

func buildTemplateWithHeader(t *testing.T, body, header string) []byte {
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
  <w:body>` + body + `</w:body>
</w:document>`))

	w, _ = zw.Create("word/header1.xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + header + `</w:hdr>`))
	zw.Close()
	return buf.Bytes()
}

func hl(text string) string {
	return `<w:r><w:rPr><w:highlight w:val="yellow"/></w:rPr><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func plain(text string) string {
	return `<w:r><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func TestFillPipeline(t *testing.T) {
	template := buildTemplate(t,
		`<w:p>`+plain("Customer Name: ")+hl("replace with name")+`</w:p>`+
			`<w:p>`+plain("Date of Quotation: ")+hl("dd/mm/yyyy")+`</w:p>`+
			`<w:p>`+plain("Prepared for [Name]")+`</w:p>`)

	q := fill.Quotation{
		CustomerName:    "Asha Rao",
		DateOfQuotation: "2025-06-01",
	}
	data, err := FromBytes(template).
		Quotation(q).
		Tags(fill.TagMap{"Name": "Asha Rao"}).
		Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	doc, err := docx.OpenBytes(data)
	if err != nil {
		t.Fatalf("reopening output failed: %v", err)
	}
	text := doc.Text()

	if !strings.Contains(text, "Asha Rao") {
		t.Errorf("text = %q, want label value injected", text)
	}
	if !strings.Contains(text, "Date of Quotation: 01/06/2025") {
		t.Errorf("text = %q, want rendered date", text)
	}
	if !strings.Contains(text, "Prepared for Asha Rao") {
		t.Errorf("text = %q, want bracket tag replaced", text)
	}
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs {
			if r.Highlighted {
				t.Errorf("run %q still highlighted in output", r.Text())
			}
		}
	}
}

// Label injection works on the document body; bracket tags are the only
// placeholder form headers and footers carry, so a label-shaped caption in
// a header must come through untouched while tags there are still replaced.
func TestFillLeavesHeaderLabelsAlone(t *testing.T) {
	template := buildTemplateWithHeader(t,
		`<w:p>`+plain("Customer Name: ")+hl("replace with name")+`</w:p>`,
		`<w:p>`+plain("Customer Name: ")+hl("replace header")+`</w:p>`+
			`<w:p>`+plain("Ref [Number]")+`</w:p>`)

	data, err := FromBytes(template).
		Labels(fill.FieldValues{"customer name": "Asha Rao"}).
		Tags(fill.TagMap{"Number": "MIERAE/25-26/0793"}).
		Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	doc, err := docx.OpenBytes(data)
	if err != nil {
		t.Fatalf("reopening output failed: %v", err)
	}

	if text := doc.Text(); !strings.Contains(text, "Asha Rao") {
		t.Errorf("body text = %q, want label value injected", text)
	}

	var header strings.Builder
	for _, p := range doc.Parts()[1].AllParagraphs() {
		header.WriteString(p.Text())
		header.WriteString("\n")
	}
	if !strings.Contains(header.String(), "Customer Name: replace header") {
		t.Errorf("header text = %q, want label caption and placeholder untouched", header.String())
	}
	if !strings.Contains(header.String(), "Ref MIERAE/25-26/0793") {
		t.Errorf("header text = %q, want bracket tag replaced", header.String())
	}
}

func TestKeepHighlights(t *testing.T) {
	template := buildTemplate(t, `<w:p>`+hl("note")+`</w:p>`)

	data, err := FromBytes(template).KeepHighlights().Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	doc, err := docx.OpenBytes(data)
	if err != nil {
		t.Fatalf("reopening output failed: %v", err)
	}
	if !doc.Paragraphs()[0].Runs[0].Highlighted {
		t.Error("highlight should survive with KeepHighlights")
	}
}

func TestConfigurationDoesNotMutateReceiver(t *testing.T) {
	base := FromBytes(buildTemplate(t, `<w:p>`+plain("x")+`</w:p>`))
	withLabels := base.Labels(fill.FieldValues{"customer name": "Asha Rao"})

	if base.options.labels != nil {
		t.Error("Labels must not mutate the receiver")
	}
	if withLabels.options.labels["customer name"] != "Asha Rao" {
		t.Error("Labels lost the staged value")
	}
}

func TestSaveAndReopen(t *testing.T) {
	template := buildTemplate(t, `<w:p>`+plain("Customer Name: ")+hl("x")+`</w:p>`)
	out := filepath.Join(t.TempDir(), "out.docx")

	err := FromBytes(template).
		Labels(fill.FieldValues{"customer name": "Asha Rao"}).
		Save(out)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	doc, err := docx.Open(out)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !strings.Contains(doc.Text(), "Asha Rao") {
		t.Errorf("text = %q, want injected value in saved file", doc.Text())
	}
}

func TestExtractPDFMissingFile(t *testing.T) {
	if _, err := ExtractPDF(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
