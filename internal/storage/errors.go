package storage

import "errors"

// Sentinel errors returned by the storage engine. The HTTP layer maps these
// to status codes and generic user-facing messages; raw filesystem paths and
// wrapped error text never reach the client.
var (
	// ErrPathEscapesRoot indicates a resolved path fell outside the owning
	// user root (traversal or symlink escape). Treated as a security event:
	// callers must log it and must not fall back to a "corrected" path.
	ErrPathEscapesRoot = errors.New("path escapes user root")

	// ErrInvalidName indicates a file or folder name that is empty after
	// sanitization.
	ErrInvalidName = errors.New("invalid name")

	// ErrNameCollision indicates the target name already exists, as either
	// a file or a folder. Mutations never overwrite.
	ErrNameCollision = errors.New("name already exists")

	// ErrNotFound indicates the target does not exist or is not a regular
	// file/directory the engine is willing to expose.
	ErrNotFound = errors.New("item not found")

	// ErrFolderNotEmpty indicates a delete was attempted on a non-empty
	// folder. Recursive deletion is deliberately unsupported.
	ErrFolderNotEmpty = errors.New("folder not empty")

	// ErrExtensionNotAllowed indicates an upload name whose extension is
	// not in the configured allow-list.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")

	// ErrRootProvisioning indicates the filesystem refused to create a
	// user root directory.
	ErrRootProvisioning = errors.New("failed to provision user root")
)
