package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
)

// ResolveUnder resolves an untrusted relative path against a user root and
// returns the canonical absolute location, or ErrPathEscapesRoot if the
// canonical result is not the root itself or one of its descendants.
//
// Escapes are rejected, never clamped: a ".." sequence that climbs above the
// root after lexical cleaning fails immediately, and symlink escapes are
// defeated by canonicalizing the deepest existing ancestor of the joined
// path and comparing it against the canonical root. Leading slashes are
// root-relative (the route wildcard always carries one), not absolute.
func ResolveUnder(root, rel string) (string, error) {
	canonRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("canonicalize root: %w", err)
	}

	cleaned := path.Clean(strings.TrimLeft(filepath.ToSlash(rel), "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrPathEscapesRoot
	}
	joined := filepath.Join(canonRoot, filepath.FromSlash(cleaned))

	canon, err := canonicalize(joined)
	if err != nil {
		return "", err
	}

	if canon != canonRoot && !strings.HasPrefix(canon, canonRoot+string(os.PathSeparator)) {
		return "", ErrPathEscapesRoot
	}
	return canon, nil
}

// canonicalize resolves symlinks in the deepest existing ancestor of p and
// rejoins the non-existent remainder. The target itself may not exist yet
// (browsing or creating a fresh subpath is valid). A component descending
// through a regular file (ENOTDIR) is treated the same as a missing one;
// the operation layer reports such targets as not found.
func canonicalize(p string) (string, error) {
	existing := p
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			if len(tail) == 0 {
				return resolved, nil
			}
			// Rebuild the missing suffix in reverse discovery order.
			parts := append([]string{resolved}, reverse(tail)...)
			return filepath.Join(parts...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", fmt.Errorf("canonicalize %q: %w", p, err)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return "", fmt.Errorf("canonicalize %q: no existing ancestor", p)
		}
		tail = append(tail, filepath.Base(existing))
		existing = parent
	}
}

func reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Names that must never be created on disk regardless of extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeName reduces a caller-supplied file or folder name to a safe base
// name: directory components, NUL and control bytes are stripped, leading and
// trailing dots/spaces removed, reserved device names rejected. Returns
// ErrInvalidName when nothing safe remains.
func SanitizeName(name string) (string, error) {
	// Backslashes count as separators no matter the host OS; uploads may
	// carry Windows-style client paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, " .")

	if name == "" || name == "/" {
		return "", ErrInvalidName
	}

	stem := name
	if i := strings.LastIndex(stem, "."); i > 0 {
		stem = stem[:i]
	}
	if _, bad := reservedNames[strings.ToUpper(stem)]; bad {
		return "", ErrInvalidName
	}
	return name, nil
}

// Extension returns the lowercased extension of a name without the dot, or
// "file" when the name has none. Matches the listing Type field contract.
func Extension(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "file"
	}
	return strings.ToLower(ext)
}
