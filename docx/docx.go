// Package docx provides a mutable model of DOCX (Office Open XML) templates.
//
// Unlike a plain text extractor, the model retains the byte offsets of every
// run inside the raw part markup, so run-level edits can be spliced back into
// the document without disturbing any markup the model does not understand.
// Unrecognized content passes through a save cycle byte for byte.
//
// Basic usage:
//
//	doc, err := docx.Open("template.docx")
//	if err != nil {
//	    // handle error
//	}
//	for _, p := range doc.Paragraphs() {
//	    // inspect p.Text(), mutate runs
//	}
//	if err := doc.Flush(); err != nil {
//	    // handle error
//	}
//	err = doc.Save("out.docx")
package docx

// XML namespaces used in DOCX files
const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)
