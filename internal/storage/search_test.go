package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolders(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "work"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "photos"), 0o755))
	writeFile(t, filepath.Join(root, "docs", "a.txt"), []byte("x"))

	folders, err := Folders(root)
	require.NoError(t, err)

	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"docs", "docs/work", "photos"}, paths)
}

func TestSearchMatchesByName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Report-Q3.pdf"), []byte("12345"))
	writeFile(t, filepath.Join(root, "docs", "report-draft.txt"), []byte("x"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "reports"), 0o755))
	writeFile(t, filepath.Join(root, "unrelated.txt"), []byte("x"))

	results, err := Search(root, "repo")
	require.NoError(t, err)

	byPath := map[string]Entry{}
	for _, r := range results {
		byPath[r.Path] = r
	}
	require.Len(t, results, 3)
	assert.Equal(t, KindFile, byPath["Report-Q3.pdf"].Kind)
	assert.Equal(t, "pdf", byPath["Report-Q3.pdf"].Type)
	assert.Equal(t, int64(5), byPath["Report-Q3.pdf"].Size)
	assert.Equal(t, KindFile, byPath["docs/report-draft.txt"].Kind)
	assert.Equal(t, KindFolder, byPath["reports"].Kind)
}

func TestSearchEmptyQuery(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("x"))

	results, err := Search(root, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}
