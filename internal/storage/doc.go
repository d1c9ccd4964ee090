// Package storage implements the sandboxed per-user file storage engine.
//
// Every user owns an exclusive subtree under the storage root
// (storageRoot/user_{userID}). Untrusted relative paths from the HTTP
// layer are resolved and canonicalized by ResolveUnder before any
// filesystem call; a path whose canonical form falls outside the owning
// user root is rejected, never clamped.
//
// The package is organized into small modules:
//   - paths: path resolution and name sanitization
//   - roots: lazy, idempotent user root provisioning (Roots)
//   - listing: directory listing and breadcrumbs
//   - mutations: upload, create-folder, delete (Mutator)
//   - retrieval: read-only file streaming
//   - search: folder tree and filename search
//   - service: request-facing facade composing the above
//
// The filesystem itself is the only shared state. No locking is performed;
// individual operations rely on the atomicity of the underlying mkdir,
// rename and unlink calls.
package storage
