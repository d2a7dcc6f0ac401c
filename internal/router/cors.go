package router

import (
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSPolicy builds the cross-origin policy for the whole engine. The backup
// endpoint accepts requests from any origin unconditionally; every other
// route honors allowedOrigins. An empty list leaves the whole API open.
// Credentials stay off because the backup endpoint is origin-unrestricted.
func CORSPolicy(allowedOrigins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
		return cors.New(config)
	}

	config.AllowOriginWithContextFunc = func(c *gin.Context, origin string) bool {
		if strings.HasPrefix(c.Request.URL.Path, "/api/backup") {
			return true
		}
		return slices.Contains(allowedOrigins, origin)
	}
	return cors.New(config)
}
