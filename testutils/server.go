package testutils

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// NewFixtureServer serves static HTML pages keyed by URL path. Unknown paths
// return 404.
func NewFixtureServer(pages map[string]string) *httptest.Server {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	for path, body := range pages {
		page := body
		router.GET(path, func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		})
	}
	router.NoRoute(func(c *gin.Context) {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte("<html><body>404 Not Found</body></html>"))
	})

	return httptest.NewServer(router)
}
