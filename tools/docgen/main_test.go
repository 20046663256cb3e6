package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		wantFiles []string
	}{
		{
			name:      "markdown",
			format:    "markdown",
			wantFiles: []string{"spapi.md", "spapi_token.md", "spapi_catalog_search.md", "spapi_kiosk_create.md"},
		},
		{
			name:      "man pages",
			format:    "man",
			wantFiles: []string{"spapi.1", "spapi-token.1", "spapi-catalog-search.1", "spapi-kiosk-create.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")

			var stdout bytes.Buffer
			require.NoError(t, run([]string{"-format", tt.format, "-output", dir}, &stdout))
			assert.Contains(t, stdout.String(), dir)

			for _, name := range tt.wantFiles {
				data, err := os.ReadFile(filepath.Join(dir, name))
				require.NoError(t, err, name)
				assert.NotEmpty(t, data)
			}
		})
	}
}

func TestRun_TokenPageDocumentsReset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run([]string{"-output", dir}, &bytes.Buffer{}))

	data, err := os.ReadFile(filepath.Join(dir, "spapi_token.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "--reset")
	assert.Contains(t, string(data), "--reveal")
}

func TestRun_UnknownFormat(t *testing.T) {
	err := run([]string{"-format", "html", "-output", t.TempDir()}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
