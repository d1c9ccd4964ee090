package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnderStaysInsideRoot(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"empty path is the root", "", ""},
		{"simple child", "docs", "docs"},
		{"nested child", "docs/work/reports", "docs/work/reports"},
		{"leading slash ignored", "/docs", "docs"},
		{"dot segments collapsed", "docs/./work/../work", "docs/work"},
		{"internal dotdot that stays inside", "docs/../other", "other"},
	}

	canonRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUnder(root, tt.rel)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(canonRoot, tt.want), got)
		})
	}
}

func TestResolveUnderRejectsTraversal(t *testing.T) {
	root := t.TempDir()

	escapes := []string{
		"..",
		"../",
		"../outside",
		"../../../../etc/passwd",
		"docs/../../outside",
		"/..",
		"/../outside",
		"docs/../../../root",
	}
	for _, rel := range escapes {
		t.Run(rel, func(t *testing.T) {
			_, err := ResolveUnder(root, rel)
			assert.ErrorIs(t, err, ErrPathEscapesRoot)
		})
	}
}

func TestResolveUnderRejectsSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))

	// A symlink inside the root pointing outside it.
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))

	_, err := ResolveUnder(root, "escape")
	assert.ErrorIs(t, err, ErrPathEscapesRoot)

	_, err = ResolveUnder(root, "escape/deeper/file.txt")
	assert.ErrorIs(t, err, ErrPathEscapesRoot)
}

func TestResolveUnderSymlinkInsideRootIsAllowed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	got, err := ResolveUnder(root, "alias")
	require.NoError(t, err)

	canonRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(canonRoot, "real"), got)
}

func TestResolveUnderThroughRegularFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("x"))

	// Descending through a file resolves like a missing path; the
	// operation layer decides whether that reads as empty or not found.
	got, err := ResolveUnder(root, "notes.txt/sub")
	require.NoError(t, err)

	canonRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(canonRoot, "notes.txt", "sub"), got)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		bad   bool
	}{
		{"plain name", "report.pdf", "report.pdf", false},
		{"directory components stripped", "a/b/report.pdf", "report.pdf", false},
		{"windows separators stripped", `C:\evil\report.pdf`, "report.pdf", false},
		{"null bytes removed", "re\x00port.txt", "report.txt", false},
		{"control bytes removed", "re\x1fport.txt", "report.txt", false},
		{"leading dots trimmed", "...hidden", "hidden", false},
		{"trailing dots trimmed", "name..", "name", false},
		{"unicode preserved", "отчёт.docx", "отчёт.docx", false},
		{"empty", "", "", true},
		{"dot", ".", "", true},
		{"dotdot", "..", "", true},
		{"only separators", "///", "", true},
		{"reserved device", "CON", "", true},
		{"reserved device with extension", "con.txt", "", true},
		{"reserved lpt", "lpt1.doc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeName(tt.input)
			if tt.bad {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "txt", Extension("a.txt"))
	assert.Equal(t, "pdf", Extension("Report.PDF"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "file", Extension("README"))
}
