package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"syscall"
)

// List enumerates the immediate children of a resolved directory. relPrefix
// is the user-relative path of that directory and is used to build child
// paths and breadcrumbs. A directory that does not exist yet is a valid,
// empty state, not an error.
//
// Only regular files and directories are exposed; symlinks, devices and
// sockets are excluded from both lists. Ordering is whatever the filesystem
// returns.
func List(dir, relPrefix string) (Listing, error) {
	listing := Listing{
		Path:        relPrefix,
		Files:       []Entry{},
		Folders:     []Entry{},
		Breadcrumbs: Breadcrumbs(relPrefix),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// ENOTDIR: the path descends through a regular file. Both read as
		// "nothing lives here".
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return listing, nil
		}
		return listing, fmt.Errorf("list %q: %w", relPrefix, err)
	}

	for _, d := range entries {
		name := d.Name()
		childPath := name
		if relPrefix != "" {
			childPath = path.Join(relPrefix, name)
		}
		switch {
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				// Entry vanished between ReadDir and Stat.
				continue
			}
			listing.Files = append(listing.Files, Entry{
				Name: name,
				Path: childPath,
				Kind: KindFile,
				Size: info.Size(),
				Type: Extension(name),
			})
		case d.IsDir():
			listing.Folders = append(listing.Folders, Entry{
				Name: name,
				Path: childPath,
				Kind: KindFolder,
				Type: "folder",
			})
		}
	}
	return listing, nil
}

// Breadcrumbs splits a relative path into navigation segments, accumulating
// the cumulative path left to right. Empty segments from leading, trailing
// or doubled slashes are skipped.
func Breadcrumbs(rel string) []Crumb {
	crumbs := []Crumb{}
	accumulated := ""
	for _, part := range strings.Split(rel, "/") {
		if part == "" {
			continue
		}
		accumulated = path.Join(accumulated, part)
		crumbs = append(crumbs, Crumb{Name: part, Path: accumulated})
	}
	return crumbs
}
