package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// NormalizeImage re-encodes an image as PNG. PDF image extraction emits
// whatever format the scanner embedded (TIFF and BMP are common in
// government scans); PNG is the one format every downstream consumer reads.
// PNG input is passed through untouched.
func NormalizeImage(data []byte) ([]byte, error) {
	if isPNG(data) {
		return data, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("re-encoding %s image as png: %w", format, err)
	}
	return buf.Bytes(), nil
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngMagic)
}
