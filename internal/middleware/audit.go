package middleware

import (
	"net/http"
	"time"

	"go-farmops/internal/bootstrap"

	"github.com/gin-gonic/gin"
)

// AuditTrail records every successful state-changing request. Reads and
// failed requests are skipped; farm and actor come from the context set by
// AuthMiddleware further down the chain.
func AuditTrail(audit bootstrap.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		meta := map[string]any{
			"status":     status,
			"path":       c.Request.URL.Path,
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if id := c.Param("id"); id != "" {
			meta["target_id"] = id
		}

		audit.Log(c.Request.Context(), bootstrap.AuditLog{
			Action:  c.Request.Method + " " + route,
			Message: "farm mutation",
			Meta:    meta,
		})
	}
}
