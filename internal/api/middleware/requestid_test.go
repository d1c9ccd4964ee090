package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})
	return router
}

func TestRequestIDGenerated(t *testing.T) {
	router := newRequestIDRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	rid := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, w.Body.String())
}

func TestRequestIDHonorsInbound(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req_abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req_abc123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req_abc123", w.Body.String())
}
