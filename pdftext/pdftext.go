// Package pdftext pulls plain text out of PDF files for field extraction.
//
// Text-bearing PDFs are read page by page; a page that fails to decode is
// skipped rather than failing the whole document, since authority letters
// frequently carry one malformed page of stamps or seals. Documents with no
// usable text layer are reported as scanned so the caller can fall back to
// OCR.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// minMeaningfulText is the threshold below which a document's text layer is
// considered absent and the file treated as a scan.
const minMeaningfulText = 50

// Result is the outcome of extracting one PDF.
type Result struct {
	Text    string
	Pages   int
	Scanned bool
}

// ExtractFile reads every page's plain text from the PDF at path. Pages that
// cannot be decoded are skipped; the document fails only when it cannot be
// opened at all.
func ExtractFile(path string) (*Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	pages := reader.NumPage()
	for n := 1; n <= pages; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(content)
	}

	text := sb.String()
	return &Result{
		Text:    text,
		Pages:   pages,
		Scanned: isScanned(text),
	}, nil
}

// isScanned reports whether the extracted text layer is too thin to be real
// content, which is the signature of an image-only scan.
func isScanned(text string) bool {
	return len(strings.TrimSpace(text)) < minMeaningfulText
}

func relaxedConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Validate checks that the file at path is a structurally sound PDF, using
// relaxed validation so the slightly off-spec output of government scanners
// still passes.
func Validate(path string) error {
	if err := api.ValidateFile(path, relaxedConf()); err != nil {
		return fmt.Errorf("validating pdf %s: %w", path, err)
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return n, nil
}

// ExtractImages writes every embedded image of the PDF at path into outDir,
// one file per image. Scanned letters carry their content as one full-page
// image per page; the written files feed the OCR fallback.
func ExtractImages(path, outDir string) error {
	if err := api.ExtractImagesFile(path, outDir, nil, relaxedConf()); err != nil {
		return fmt.Errorf("extracting images from %s: %w", path, err)
	}
	return nil
}
