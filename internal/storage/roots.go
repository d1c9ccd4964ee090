package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// userIDPattern restricts the characters that may appear in an on-disk root
// name. User IDs come from the auth layer, but the directory name is built by
// string concatenation, so they are validated anyway.
var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Roots lazily provisions per-user storage roots under a base directory.
// The on-disk layout is fixed at base/user_{userID}.
type Roots struct {
	base string
}

// NewRoots creates a root manager over the given storage base directory.
func NewRoots(base string) *Roots {
	return &Roots{base: base}
}

// Base returns the storage base directory.
func (r *Roots) Base() string {
	return r.base
}

// Dir returns the root path for a user without touching the filesystem.
func (r *Roots) Dir(userID string) string {
	return filepath.Join(r.base, "user_"+userID)
}

// Ensure creates the user's root (and any missing ancestors) if absent.
// Idempotent and safe for concurrent callers: an already existing directory
// is success, not an error.
func (r *Roots) Ensure(userID string) (string, error) {
	if !userIDPattern.MatchString(userID) {
		return "", fmt.Errorf("%w: bad user id", ErrRootProvisioning)
	}
	dir := r.Dir(userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootProvisioning, err)
	}
	return dir, nil
}
