package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkova/clouddisk/internal/infrastructure/logging"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Config{Root: t.TempDir()}, logging.NewNop())
}

func TestServiceUploadThenRetrieve(t *testing.T) {
	svc := newTestService(t)

	content := "round trip payload"
	name, err := svc.Upload("alice", "docs", "payload.txt", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "payload.txt", name)

	f, fi, err := svc.Open("alice", "docs/payload.txt")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, int64(len(content)), fi.Size())
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestServiceBrowse(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateFolder("alice", "", "docs")
	require.NoError(t, err)
	_, err = svc.Upload("alice", "docs", "a.txt", strings.NewReader("0123456789"))
	require.NoError(t, err)

	listing, err := svc.Browse("alice", "/docs")
	require.NoError(t, err)

	assert.Equal(t, "docs", listing.Path)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "docs/a.txt", listing.Files[0].Path)
	assert.Equal(t, []Crumb{{Name: "docs", Path: "docs"}}, listing.Breadcrumbs)

	// Browsing a path that was never created is a valid empty state.
	empty, err := svc.Browse("alice", "docs/nothing/here")
	require.NoError(t, err)
	assert.Empty(t, empty.Files)
	assert.Empty(t, empty.Folders)
}

func TestServiceRejectsEscapeWithoutMutation(t *testing.T) {
	root := t.TempDir()
	svc := NewService(Config{Root: root}, logging.NewNop())

	// Plant a sentinel file outside any user root.
	sentinel := filepath.Join(root, "sentinel.txt")
	writeFile(t, sentinel, []byte("untouched"))

	_, err := svc.Upload("mallory", "../..", "evil.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrPathEscapesRoot)

	err = svc.Delete("mallory", "../sentinel.txt")
	assert.ErrorIs(t, err, ErrPathEscapesRoot)

	_, _, err = svc.Open("mallory", "../sentinel.txt")
	assert.ErrorIs(t, err, ErrPathEscapesRoot)

	_, err = svc.Browse("mallory", "../../")
	assert.ErrorIs(t, err, ErrPathEscapesRoot)

	// Sentinel intact, and the user root holds nothing.
	got, err := os.ReadFile(sentinel)
	require.NoError(t, err)
	assert.Equal(t, "untouched", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "user_mallory"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceUsersAreIsolated(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload("usera", "notes", "todo.txt", strings.NewReader("a's secrets"))
	require.NoError(t, err)

	// Same relative path, different user: empty.
	listing, err := svc.Browse("userb", "notes")
	require.NoError(t, err)
	assert.Empty(t, listing.Files)
	assert.Empty(t, listing.Folders)

	_, _, err = svc.Open("userb", "notes/todo.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	// And user A still sees it.
	a, err := svc.Browse("usera", "notes")
	require.NoError(t, err)
	require.Len(t, a.Files, 1)
	assert.Equal(t, "todo.txt", a.Files[0].Name)
}

func TestServiceDeleteFlow(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateFolder("alice", "", "stuff")
	require.NoError(t, err)
	_, err = svc.Upload("alice", "stuff", "thing.txt", strings.NewReader("x"))
	require.NoError(t, err)

	// Non-empty folder refuses deletion.
	err = svc.Delete("alice", "stuff")
	assert.ErrorIs(t, err, ErrFolderNotEmpty)

	require.NoError(t, svc.Delete("alice", "stuff/thing.txt"))
	require.NoError(t, svc.Delete("alice", "stuff"))

	listing, err := svc.Browse("alice", "")
	require.NoError(t, err)
	assert.Empty(t, listing.Folders)
}

func TestServiceDeleteRefusesUserRoot(t *testing.T) {
	root := t.TempDir()
	svc := NewService(Config{Root: root}, logging.NewNop())

	_, err := svc.EnsureRoot("alice")
	require.NoError(t, err)

	// The root itself is not a deletable item, however it is addressed.
	for _, rel := range []string{"/", "", ".", "docs/.."} {
		err := svc.Delete("alice", rel)
		assert.ErrorIs(t, err, ErrNotFound, "rel %q", rel)
	}

	// Nor through a symlink aliasing it from inside.
	userRoot := filepath.Join(root, "user_alice")
	require.NoError(t, os.Symlink(userRoot, filepath.Join(userRoot, "self")))
	err = svc.Delete("alice", "self")
	assert.ErrorIs(t, err, ErrNotFound)

	fi, err := os.Stat(userRoot)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestServiceFoldersAndSearch(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateFolder("alice", "", "projects")
	require.NoError(t, err)
	_, err = svc.CreateFolder("alice", "projects", "go")
	require.NoError(t, err)
	_, err = svc.Upload("alice", "projects/go", "main.txt", strings.NewReader("x"))
	require.NoError(t, err)

	folders, err := svc.Folders("alice")
	require.NoError(t, err)
	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"projects", "projects/go"}, paths)

	results, err := svc.Search("alice", "main")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "projects/go/main.txt", results[0].Path)
}
