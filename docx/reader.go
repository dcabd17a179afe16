package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Document is a mutable DOCX template. It owns the raw package bytes plus a
// parsed tree per markup part. A Document is exclusively owned by its caller
// for the duration of a fill operation; it performs no locking.
type Document struct {
	zipData []byte
	parts   []*Part // parts[0] is always word/document.xml
}

// Open opens a DOCX file as a mutable template.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a DOCX package held in memory.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	d := &Document{zipData: data}

	if err := validate(zr); err != nil {
		return nil, err
	}

	// Main document part first, then headers and footers in name order. A
	// header or footer that fails to parse is kept raw (fail-open); only a
	// broken main part is an error.
	main, err := readPart(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	main.reparse()
	if main.parseErr != nil {
		return nil, fmt.Errorf("parsing document: %w", main.parseErr)
	}
	d.parts = append(d.parts, main)

	var extra []string
	for _, f := range zr.File {
		if isHeaderFooter(f.Name) {
			extra = append(extra, f.Name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		pt, err := readPart(zr, name)
		if err != nil {
			continue
		}
		pt.reparse()
		d.parts = append(d.parts, pt)
	}

	return d, nil
}

// validate checks that required DOCX files exist.
func validate(zr *zip.Reader) error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range zr.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

func isHeaderFooter(name string) bool {
	if !strings.HasPrefix(name, "word/") || !strings.HasSuffix(name, ".xml") {
		return false
	}
	base := strings.TrimPrefix(name, "word/")
	return strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")
}

func readPart(zr *zip.Reader, name string) (*Part, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", name, err)
		}
		return &Part{Name: name, data: data}, nil
	}
	return nil, fmt.Errorf("part not found: %s", name)
}

// Parts returns every markup part of the document, main part first.
func (d *Document) Parts() []*Part {
	return d.parts
}

// Main returns the word/document.xml part.
func (d *Document) Main() *Part {
	return d.parts[0]
}

// Body returns the top-level blocks of the main document part.
func (d *Document) Body() []Block {
	return d.parts[0].Blocks()
}

// Paragraphs returns the main part's paragraphs in walker order: body-level
// paragraphs first, then table cell paragraphs, nested tables recursively.
func (d *Document) Paragraphs() []*Paragraph {
	return Flatten(d.Body())
}

// Tables returns the top-level tables of the main document part.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Body() {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Text returns the concatenated text of the main part's paragraphs, one per
// line, in walker order.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, p := range d.Paragraphs() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p.Text())
	}
	return sb.String()
}

// Flush applies all staged edits across every part and reparses. Pointers to
// paragraphs, runs and tables obtained before Flush are invalid afterwards.
func (d *Document) Flush() error {
	for _, pt := range d.parts {
		if err := pt.flush(); err != nil {
			return fmt.Errorf("flushing %s: %w", pt.Name, err)
		}
	}
	return nil
}
