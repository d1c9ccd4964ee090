package storage

import (
	"io/fs"
	"os"
)

// Open returns a readable handle for a resolved regular file. Anything else
// (missing entry, directory, symlink, special file, unreadable file) reports
// ErrNotFound; retrieval never leaks lower-level detail to the caller.
func Open(target string) (*os.File, fs.FileInfo, error) {
	fi, err := os.Lstat(target)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, nil, ErrNotFound
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	return f, fi, nil
}
