// Package docquill provides a fluent API for filling DOCX templates with
// field values and for recovering structured fields from PDF letters.
//
// Basic usage:
//
//	err := docquill.Open("template.docx").
//	    Quotation(q).
//	    Save("out.docx")
//
// With bracket tags and explicit options:
//
//	data, err := docquill.Open("template.docx").
//	    Tags(fill.TagMap{"Name": "Asha Rao"}).
//	    KeepHighlights().
//	    Bytes()
//
// Field recovery from a PDF:
//
//	rec, err := docquill.ExtractPDF("sanction-letter.pdf")
//
// For lower-level control the docx, fill, extract, pdftext and ocr packages
// are also available.
package docquill

import (
	"fmt"
	"io"
	"os"

	"github.com/docquill/docquill/docx"
	"github.com/docquill/docquill/extract"
	"github.com/docquill/docquill/fill"
	"github.com/docquill/docquill/ocr"
	"github.com/docquill/docquill/pdftext"
)

// Filler stages substitutions against a template and applies them as one
// pipeline. Configuration methods return the Filler for chaining; the work
// happens at a terminal operation (Document, Bytes, Save, Write).
type Filler struct {
	filename string
	data     []byte

	doc    *docx.Document
	opened bool

	options FillOptions
}

// Open prepares a fill pipeline for the template at filename. The file is
// read at the first terminal operation.
//
// Example:
//
//	err := docquill.Open("template.docx").Labels(values).Save("out.docx")
func Open(filename string) *Filler {
	return &Filler{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes prepares a fill pipeline for an in-memory template.
func FromBytes(data []byte) *Filler {
	return &Filler{
		data:    data,
		options: defaultOptions(),
	}
}

// FromDocument prepares a fill pipeline over an already-opened document.
// The caller keeps ownership of the document.
func FromDocument(doc *docx.Document) *Filler {
	return &Filler{
		doc:     doc,
		opened:  true,
		options: defaultOptions(),
	}
}

func (f *Filler) clone() *Filler {
	return &Filler{
		filename: f.filename,
		data:     f.data,
		doc:      f.doc,
		opened:   f.opened,
		options:  f.options.clone(),
	}
}

// Labels stages label-scoped values: each known label's highlighted
// placeholder runs receive the mapped value.
func (f *Filler) Labels(values fill.FieldValues) *Filler {
	nf := f.clone()
	if nf.options.labels == nil {
		nf.options.labels = make(fill.FieldValues, len(values))
	}
	for k, v := range values {
		nf.options.labels[k] = v
	}
	return nf
}

// Quotation stages a quotation's fields, mapped onto the label vocabulary
// with dates rendered for display.
func (f *Filler) Quotation(q fill.Quotation) *Filler {
	return f.Labels(q.FieldValues())
}

// Tags stages bracket-tag substitutions ([Date], [Name], [Address],
// [Number]).
func (f *Filler) Tags(tags fill.TagMap) *Filler {
	nf := f.clone()
	if nf.options.tags == nil {
		nf.options.tags = make(fill.TagMap, len(tags))
	}
	for k, v := range tags {
		nf.options.tags[k] = v
	}
	return nf
}

// SkipNormalize leaves the document layout as the substitutions produced
// it, without table width or alignment tidying.
func (f *Filler) SkipNormalize() *Filler {
	nf := f.clone()
	nf.options.normalize = false
	return nf
}

// KeepHighlights keeps placeholder highlight marks in the output. By
// default they are cleared so the rendered document shows no marking.
func (f *Filler) KeepHighlights() *Filler {
	nf := f.clone()
	nf.options.clearHighlights = false
	return nf
}

func (f *Filler) ensureDocument() error {
	if f.opened {
		return nil
	}
	var err error
	if f.data != nil {
		f.doc, err = docx.OpenBytes(f.data)
	} else {
		f.doc, err = docx.Open(f.filename)
	}
	if err != nil {
		return err
	}
	f.opened = true
	return nil
}

// Document runs the staged pipeline and returns the mutated document. The
// passes run in a fixed order: label injection, bracket-tag substitution,
// layout normalization, highlight clearing.
func (f *Filler) Document() (*docx.Document, error) {
	if err := f.ensureDocument(); err != nil {
		return nil, err
	}
	doc := f.doc

	if f.options.labels != nil {
		// Labels live in the document body; headers and footers only
		// carry bracket tags, which the tag pass covers on every part.
		fill.InjectLabels(doc.Paragraphs(), f.options.labels)
		if err := doc.Flush(); err != nil {
			return nil, fmt.Errorf("applying label values: %w", err)
		}
	}

	if f.options.tags != nil {
		if err := fill.PopulateTags(doc, f.options.tags); err != nil {
			return nil, err
		}
	}

	if f.options.normalize {
		fill.NormalizeLayout(doc)
		if err := doc.Flush(); err != nil {
			return nil, fmt.Errorf("normalizing layout: %w", err)
		}
	}

	if f.options.clearHighlights {
		if err := fill.ClearHighlights(doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Bytes runs the pipeline and serializes the filled document.
func (f *Filler) Bytes() ([]byte, error) {
	doc, err := f.Document()
	if err != nil {
		return nil, err
	}
	return doc.Bytes()
}

// Save runs the pipeline and writes the filled document to filename.
func (f *Filler) Save(filename string) error {
	doc, err := f.Document()
	if err != nil {
		return err
	}
	return doc.Save(filename)
}

// Write runs the pipeline and writes the filled document to w.
func (f *Filler) Write(w io.Writer) error {
	doc, err := f.Document()
	if err != nil {
		return err
	}
	return doc.Write(w)
}

// ExtractOption adjusts how ExtractPDF handles a document.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	language string
}

// WithOCRLanguage sets the Tesseract language(s) used when a scanned
// document falls back to OCR, e.g. "eng" or "eng+hin".
func WithOCRLanguage(lang string) ExtractOption {
	return func(c *extractConfig) {
		c.language = lang
	}
}

// ExtractPDF pulls text from the PDF at path and recovers the four-field
// record from it. Image-only scans fall back to OCR; when OCR support is
// not compiled in, the error says so rather than returning empty fields.
func ExtractPDF(path string, opts ...ExtractOption) (extract.Record, error) {
	var cfg extractConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	res, err := pdftext.ExtractFile(path)
	if err != nil {
		return extract.Record{}, err
	}
	if !res.Scanned {
		return extract.Extract(res.Text), nil
	}

	text, err := recognizeScanned(path, cfg.language)
	if err != nil {
		return extract.Record{}, fmt.Errorf("scanned pdf %s: %w", path, err)
	}
	return extract.Extract(text), nil
}

// recognizeScanned extracts the page images of a scanned PDF and runs OCR
// over them.
func recognizeScanned(path, language string) (string, error) {
	client, err := ocr.New()
	if err != nil {
		return "", err
	}
	defer client.Close()

	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			return "", err
		}
	}

	dir, err := os.MkdirTemp("", "docquill-ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	if err := pdftext.ExtractImages(path, dir); err != nil {
		return "", err
	}
	return client.RecognizeDir(dir)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	data := docquill.Must(docquill.Open("template.docx").Quotation(q).Bytes())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
