package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Bytes serializes the document back into a DOCX package. Staged edits are
// flushed first. Every entry of the original archive is preserved; only
// mutated parts are rewritten.
func (d *Document) Bytes() ([]byte, error) {
	if err := d.Flush(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(d.zipData), int64(len(d.zipData)))
	if err != nil {
		return nil, fmt.Errorf("reopening ZIP archive: %w", err)
	}

	replaced := make(map[string][]byte, len(d.parts))
	for _, pt := range d.parts {
		replaced[pt.Name] = pt.data
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("writing entry %s: %w", f.Name, err)
		}
		if data, ok := replaced[f.Name]; ok {
			if _, err := w.Write(data); err != nil {
				return nil, fmt.Errorf("writing entry %s: %w", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("copying entry %s: %w", f.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("copying entry %s: %w", f.Name, err)
		}
		rc.Close()
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing ZIP archive: %w", err)
	}

	return buf.Bytes(), nil
}

// Write serializes the document to w.
func (d *Document) Write(w io.Writer) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Save serializes the document to a file.
func (d *Document) Save(filename string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
