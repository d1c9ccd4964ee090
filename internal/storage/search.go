package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// walkConfig never follows symlinks; a symlinked directory inside a user
// root must not pull outside content into results.
var walkConfig = fastwalk.Config{Follow: false}

// Folders enumerates every folder under a user root as root-relative
// entries, sorted by path. Used by the destination selector when uploading
// or creating folders.
func Folders(root string) ([]Entry, error) {
	var (
		mu  sync.Mutex
		out []Entry
	)
	err := fastwalk.Walk(&walkConfig, root, func(p string, d os.DirEntry, err error) error {
		if err != nil || p == root || !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		mu.Lock()
		out = append(out, Entry{
			Name: d.Name(),
			Path: filepath.ToSlash(rel),
			Kind: KindFolder,
			Type: "folder",
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk folders: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Search returns entries under root whose name contains the query, case
// insensitive, sorted by path. Only regular files and folders are reported.
func Search(root, query string) ([]Entry, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []Entry{}, nil
	}

	var (
		mu  sync.Mutex
		out []Entry
	)
	err := fastwalk.Walk(&walkConfig, root, func(p string, d os.DirEntry, err error) error {
		if err != nil || p == root {
			return nil
		}
		if !strings.Contains(strings.ToLower(d.Name()), needle) {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		entry := Entry{Name: d.Name(), Path: filepath.ToSlash(rel)}
		switch {
		case d.Type().IsRegular():
			entry.Kind = KindFile
			entry.Type = Extension(d.Name())
			if info, infoErr := d.Info(); infoErr == nil {
				entry.Size = info.Size()
			}
		case d.IsDir():
			entry.Kind = KindFolder
			entry.Type = "folder"
		default:
			return nil
		}
		mu.Lock()
		out = append(out, entry)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk search: %w", err)
	}
	if out == nil {
		out = []Entry{}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
