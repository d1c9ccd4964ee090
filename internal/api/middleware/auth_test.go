package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkova/clouddisk/internal/domain/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := auth.NewManager(time.Hour)
	router := gin.New()
	router.GET("/protected", Auth(manager), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	return router, manager
}

func TestAuthRejectsMissingToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsValidToken(t *testing.T) {
	router, manager := newAuthRouter(t)

	_, err := manager.Register("alice", "password123", "")
	require.NoError(t, err)
	session, err := manager.Login("alice", "password123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), session.UserID.String())
}
