package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// DefaultAllowedExtensions is the upload allow-list applied when none is
// configured: images, documents, text and archives.
var DefaultAllowedExtensions = []string{
	"jpg", "jpeg", "png", "gif",
	"pdf", "doc", "docx", "xls", "xlsx",
	"txt", "csv", "md",
	"zip", "rar",
}

// Mutator performs the write operations of the storage engine: upload,
// create-folder and delete. All targets must already be resolved by
// ResolveUnder; the mutator itself never interprets untrusted paths, only
// untrusted base names.
type Mutator struct {
	allowed map[string]struct{}
}

// NewMutator creates a mutator with the given upload extension allow-list.
// An empty list falls back to DefaultAllowedExtensions.
func NewMutator(allowedExts []string) *Mutator {
	if len(allowedExts) == 0 {
		allowedExts = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Mutator{allowed: allowed}
}

// extensionAllowed reports whether a sanitized file name passes the
// allow-list. Names without an extension are rejected.
func (m *Mutator) extensionAllowed(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	_, ok := m.allowed[strings.ToLower(ext)]
	return ok
}

// Upload writes a new file under parentDir from the given stream and returns
// the sanitized name it was stored under. Existing targets are never
// overwritten: the final name is claimed first with O_EXCL, so under two
// concurrent identical uploads exactly one wins and the loser observes
// ErrNameCollision. The content is staged in a temp file and published with
// a rename so no partial content is ever visible under the final name.
func (m *Mutator) Upload(parentDir, fileName string, r io.Reader) (string, error) {
	name, err := SanitizeName(fileName)
	if err != nil {
		return "", err
	}
	if !m.extensionAllowed(name) {
		return "", ErrExtensionNotAllowed
	}

	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return "", fmt.Errorf("create parent: %w", err)
	}

	// O_EXCL fails with EEXIST for any existing entry, files, folders and
	// symlinks alike.
	target := filepath.Join(parentDir, name)
	claim, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", ErrNameCollision
		}
		return "", fmt.Errorf("claim target: %w", err)
	}
	claim.Close()

	tmp, err := os.CreateTemp(parentDir, ".upload-*")
	if err != nil {
		os.Remove(target)
		return "", fmt.Errorf("stage upload: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		os.Remove(target)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		os.Remove(target)
		return "", fmt.Errorf("flush upload: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		os.Remove(target)
		return "", fmt.Errorf("chmod upload: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		os.Remove(target)
		return "", fmt.Errorf("publish upload: %w", err)
	}
	return name, nil
}

// CreateFolder creates a new directory named folderName under parentDir.
// A file or folder already carrying that name is a collision. Under two
// concurrent identical calls exactly one directory is created; the loser
// observes ErrNameCollision (mkdir is atomic at the filesystem level).
func (m *Mutator) CreateFolder(parentDir, folderName string) (string, error) {
	name, err := SanitizeName(folderName)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return "", fmt.Errorf("create parent: %w", err)
	}

	target := filepath.Join(parentDir, name)
	if err := os.Mkdir(target, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", ErrNameCollision
		}
		return "", fmt.Errorf("create folder: %w", err)
	}
	return name, nil
}

// Delete removes a resolved target. Files are unlinked; folders are removed
// only when empty. Missing targets and entries the engine does not expose
// (symlinks, devices) report ErrNotFound.
func (m *Mutator) Delete(target string) error {
	fi, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return ErrNotFound
		}
		return fmt.Errorf("stat target: %w", err)
	}

	switch {
	case fi.Mode().IsRegular():
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("delete file: %w", err)
		}
	case fi.IsDir():
		entries, err := os.ReadDir(target)
		if err != nil {
			return fmt.Errorf("inspect folder: %w", err)
		}
		if len(entries) > 0 {
			return ErrFolderNotEmpty
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
	default:
		return ErrNotFound
	}
	return nil
}
