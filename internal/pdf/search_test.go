package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_FindDocuments(t *testing.T) {
	search := NewSearch()

	tempDir := t.TempDir()
	testFiles := map[string][]byte{
		"b_report.pdf": []byte("%PDF"),
		"a_report.pdf": []byte("%PDF"),
		"c_report.pdf": {}, // empty files are still discovered
		"notes.txt":    []byte("text"),
	}
	for name, content := range testFiles {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), content, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "nested.pdf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "nested.pdf", "inner.pdf"), []byte("%PDF"), 0o644))

	tests := []struct {
		name     string
		pattern  string
		expected []string
	}{
		{
			name:     "default pattern",
			pattern:  "",
			expected: []string{"a_report.pdf", "b_report.pdf", "c_report.pdf"},
		},
		{
			name:     "custom pattern",
			pattern:  "b_*.pdf",
			expected: []string{"b_report.pdf"},
		},
		{
			name:     "non-pdf pattern",
			pattern:  "*.txt",
			expected: []string{"notes.txt"},
		},
		{
			name:     "no matches",
			pattern:  "*.xlsm",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := search.FindDocuments(tempDir, tt.pattern)
			require.NoError(t, err)

			names := make([]string, 0, len(files))
			for _, f := range files {
				names = append(names, filepath.Base(f))
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestSearch_FindDocumentsErrors(t *testing.T) {
	search := NewSearch()
	tempDir := t.TempDir()

	_, err := search.FindDocuments("", "*.pdf")
	assert.Error(t, err)

	_, err = search.FindDocuments(filepath.Join(tempDir, "missing"), "*.pdf")
	assert.Error(t, err)

	file := filepath.Join(tempDir, "file.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF"), 0o644))
	_, err = search.FindDocuments(file, "*.pdf")
	assert.Error(t, err)

	_, err = search.FindDocuments(tempDir, "[")
	assert.Error(t, err)
}

func TestIsPathWithinDirectory(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "report.pdf")
	require.NoError(t, os.WriteFile(inside, []byte("%PDF"), 0o644))

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "file inside", path: inside, expected: true},
		{name: "directory itself", path: root, expected: true},
		{name: "not yet created file inside", path: filepath.Join(root, "new.pdf"), expected: true},
		{name: "parent traversal", path: filepath.Join(root, "..", "other.pdf"), expected: false},
		{name: "sibling with shared prefix", path: root + "-other/report.pdf", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := IsPathWithinDirectory(tt.path, root)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}
