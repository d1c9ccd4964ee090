package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avolkova/clouddisk/internal/api/middleware"
	"github.com/avolkova/clouddisk/internal/domain/auth"
	"github.com/avolkova/clouddisk/internal/infrastructure/logging"
	"github.com/avolkova/clouddisk/internal/storage"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	storage        *storage.Service
	auth           *auth.Manager
	logger         *logging.Logger
	maxUploadBytes int64
}

// NewHandlers creates a new handler set.
func NewHandlers(storageSvc *storage.Service, authManager *auth.Manager, logger *logging.Logger, maxUploadBytes int64) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		storage:        storageSvc,
		auth:           authManager,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "clouddisk",
		"version": "1.0.0",
	})
}

// Health handles the health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Register creates a new account and provisions its storage root.
func (h *Handlers) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.auth.Register(req.Username, req.Password, req.Email)
	if err != nil {
		status := http.StatusBadRequest
		if err == auth.ErrUserExists {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.storage.EnsureRoot(user.ID.String()); err != nil {
		h.logger.Error("root provisioning failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and issues a bearer token.
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	session, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}

// Logout ends the current session.
func (h *Handlers) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) {
		h.auth.Logout(header[len(prefix):])
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Browse lists a directory inside the current user's storage.
func (h *Handlers) Browse(c *gin.Context) {
	user := middleware.CurrentUser(c)

	listing, err := h.storage.Browse(user.ID.String(), c.Param("path"))
	if err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Upload stores one multipart file in the directory named by current_path.
func (h *Handlers) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		// Chunked bodies slip past the Content-Length check and trip the
		// reader cap mid-parse instead.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file selected"})
		return
	}
	currentPath := c.PostForm("current_path")

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	name, err := h.storage.Upload(user.ID.String(), currentPath, fileHeader.Filename, f)
	if err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"name": name,
		"path": currentPath,
	})
}

// CreateFolder creates a folder in the directory named by current_path.
func (h *Handlers) CreateFolder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		CurrentPath string `json:"current_path"`
		Name        string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder name is required"})
		return
	}

	name, err := h.storage.CreateFolder(user.ID.String(), req.CurrentPath, req.Name)
	if err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"name": name,
		"path": req.CurrentPath,
	})
}

// DeleteItem removes a file or an empty folder.
func (h *Handlers) DeleteItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.storage.Delete(user.ID.String(), c.Param("path")); err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Download streams a file as an attachment.
func (h *Handlers) Download(c *gin.Context) {
	h.serveFile(c, true)
}

// View streams a file inline with a sniffed content type.
func (h *Handlers) View(c *gin.Context) {
	h.serveFile(c, false)
}

func (h *Handlers) serveFile(c *gin.Context, attachment bool) {
	user := middleware.CurrentUser(c)

	f, fi, err := h.storage.Open(user.ID.String(), c.Param("path"))
	if err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	defer f.Close()

	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, fi.Name()))

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectReader(f); err == nil {
		contentType = mtype.String()
	}
	if _, err := f.Seek(0, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage operation failed"})
		return
	}
	c.Header("Content-Type", contentType)

	http.ServeContent(c.Writer, c.Request, fi.Name(), fi.ModTime(), f)
}

// Folders returns the user's folder tree for destination selection.
func (h *Handlers) Folders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	folders, err := h.storage.Folders(user.ID.String())
	if err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// Search finds items by name inside the user's storage.
func (h *Handlers) Search(c *gin.Context) {
	user := middleware.CurrentUser(c)

	results, err := h.storage.Search(user.ID.String(), c.Query("q"))
	if err != nil {
		status, msg := storageStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   c.Query("q"),
		"results": results,
	})
}
