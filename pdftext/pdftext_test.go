package pdftext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
}

func TestExtractFileNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := ExtractFile(path)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 truncated"), 0o644))

	assert.Error(t, Validate(path))
}

func TestIsScanned(t *testing.T) {
	assert.True(t, isScanned(""))
	assert.True(t, isScanned("  \n stamp \n  "))
	assert.False(t, isScanned(strings.Repeat("Feasibility approval text. ", 5)))
}
