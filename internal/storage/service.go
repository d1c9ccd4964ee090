package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/avolkova/clouddisk/internal/infrastructure/logging"
	"github.com/avolkova/clouddisk/internal/infrastructure/monitoring"
)

// Config holds storage engine configuration.
type Config struct {
	// Root is the shared storage directory holding every user root.
	Root string
	// AllowedExtensions is the upload allow-list; empty means the default.
	AllowedExtensions []string
}

// Service is the request-facing facade over the storage engine. It is
// stateless: every method provisions the user root, resolves the untrusted
// relative path and dispatches to the matching engine module.
type Service struct {
	roots   *Roots
	mutator *Mutator
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewService creates a storage service rooted at cfg.Root.
func NewService(cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		roots:   NewRoots(cfg.Root),
		mutator: NewMutator(cfg.AllowedExtensions),
		logger:  logger,
	}
}

// WithMetrics attaches a metrics collector. Optional.
func (s *Service) WithMetrics(m *monitoring.Metrics) *Service {
	s.metrics = m
	return s
}

// EnsureRoot provisions the user's root directory. Called by the auth layer
// on registration and implicitly by every operation.
func (s *Service) EnsureRoot(userID string) (string, error) {
	return s.roots.Ensure(userID)
}

// resolve provisions the root and resolves rel inside it, recording escape
// attempts as security events.
func (s *Service) resolve(userID, rel string) (string, error) {
	root, err := s.roots.Ensure(userID)
	if err != nil {
		return "", err
	}
	target, err := ResolveUnder(root, rel)
	if err != nil {
		if errors.Is(err, ErrPathEscapesRoot) {
			s.logger.Warn("sandbox escape attempt rejected",
				zap.String("user_id", userID),
				zap.String("path", rel),
			)
			if s.metrics != nil {
				s.metrics.RecordSandboxViolation()
			}
		}
		return "", err
	}
	return target, nil
}

// cleanRel normalizes an inbound relative path for use in listings and
// breadcrumbs: slashes collapsed, leading/trailing slashes dropped, "." and
// empty input become "".
func cleanRel(rel string) string {
	cleaned := path.Clean("/" + filepath.ToSlash(rel))
	cleaned = cleaned[1:] // drop the root marker added above
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// Browse lists the direct children of a user-relative directory.
func (s *Service) Browse(userID, rel string) (Listing, error) {
	timer := monitoring.NewTimer(s.metrics, "browse")
	dir, err := s.resolve(userID, rel)
	if err != nil {
		timer.Stop("error")
		return Listing{}, err
	}
	listing, err := List(dir, cleanRel(rel))
	if err != nil {
		timer.Stop("error")
		return listing, err
	}
	timer.Stop("ok")
	return listing, nil
}

// Upload stores a new file in a user-relative directory and returns the
// sanitized name it was saved under.
func (s *Service) Upload(userID, rel, fileName string, r io.Reader) (string, error) {
	timer := monitoring.NewTimer(s.metrics, "upload")
	dir, err := s.resolve(userID, rel)
	if err != nil {
		timer.Stop("error")
		return "", err
	}
	name, err := s.mutator.Upload(dir, fileName, r)
	if err != nil {
		timer.Stop("error")
		return "", err
	}
	if s.metrics != nil {
		if fi, statErr := os.Lstat(filepath.Join(dir, name)); statErr == nil {
			s.metrics.RecordUpload(fi.Size())
		}
	}
	s.logger.Info("file uploaded",
		zap.String("user_id", userID),
		zap.String("dir", cleanRel(rel)),
		zap.String("name", name),
	)
	timer.Stop("ok")
	return name, nil
}

// CreateFolder creates a new folder in a user-relative directory and returns
// the sanitized folder name.
func (s *Service) CreateFolder(userID, rel, folderName string) (string, error) {
	timer := monitoring.NewTimer(s.metrics, "create_folder")
	dir, err := s.resolve(userID, rel)
	if err != nil {
		timer.Stop("error")
		return "", err
	}
	name, err := s.mutator.CreateFolder(dir, folderName)
	if err != nil {
		timer.Stop("error")
		return "", err
	}
	s.logger.Info("folder created",
		zap.String("user_id", userID),
		zap.String("dir", cleanRel(rel)),
		zap.String("name", name),
	)
	timer.Stop("ok")
	return name, nil
}

// Delete removes a user-relative file or empty folder. The user root itself
// is never a deletable item, even when empty.
func (s *Service) Delete(userID, rel string) error {
	timer := monitoring.NewTimer(s.metrics, "delete")
	target, err := s.resolve(userID, rel)
	if err != nil {
		timer.Stop("error")
		return err
	}
	if root, rootErr := filepath.EvalSymlinks(s.roots.Dir(userID)); rootErr == nil && target == root {
		timer.Stop("error")
		return ErrNotFound
	}
	if err := s.mutator.Delete(target); err != nil {
		timer.Stop("error")
		return err
	}
	s.logger.Info("item deleted",
		zap.String("user_id", userID),
		zap.String("path", cleanRel(rel)),
	)
	timer.Stop("ok")
	return nil
}

// Open returns a readable handle for a user-relative regular file. The
// caller owns the handle.
func (s *Service) Open(userID, rel string) (*os.File, fs.FileInfo, error) {
	timer := monitoring.NewTimer(s.metrics, "retrieve")
	target, err := s.resolve(userID, rel)
	if err != nil {
		timer.Stop("error")
		return nil, nil, err
	}
	f, fi, err := Open(target)
	if err != nil {
		timer.Stop("error")
		return nil, nil, err
	}
	timer.Stop("ok")
	return f, fi, nil
}

// Folders returns the user's full folder tree for destination selection.
func (s *Service) Folders(userID string) ([]Entry, error) {
	timer := monitoring.NewTimer(s.metrics, "folders")
	root, err := s.roots.Ensure(userID)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}
	out, err := Folders(root)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}
	timer.Stop("ok")
	return out, nil
}

// Search finds entries in the user's subtree whose name contains the query.
func (s *Service) Search(userID, query string) ([]Entry, error) {
	timer := monitoring.NewTimer(s.metrics, "search")
	root, err := s.roots.Ensure(userID)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}
	out, err := Search(root, query)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}
	timer.Stop("ok")
	return out, nil
}
