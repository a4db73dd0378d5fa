package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore forbids browsers and proxies from keeping a copy of the response.
// Used on candidate routes, whose bodies carry exam content and scores.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
