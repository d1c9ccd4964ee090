package http

import (
	"errors"
	"net/http"

	"github.com/avolkova/clouddisk/internal/storage"
)

// storageStatus maps a storage engine error to an HTTP status and a generic
// user-facing message. Raw paths and wrapped filesystem detail never leave
// the server; operators get them through logs.
func storageStatus(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrPathEscapesRoot):
		return http.StatusBadRequest, "invalid path"
	case errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest, "invalid name"
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		return http.StatusBadRequest, "file type not allowed"
	case errors.Is(err, storage.ErrNameCollision):
		return http.StatusConflict, "an item with this name already exists"
	case errors.Is(err, storage.ErrFolderNotEmpty):
		return http.StatusConflict, "folder is not empty"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "item not found"
	default:
		return http.StatusInternalServerError, "storage operation failed"
	}
}
