package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAuditBody caps the request body snippet stored with an audit entry.
const maxAuditBody = 512

var auditActions = map[string]string{
	"POST":   "create",
	"PUT":    "update",
	"DELETE": "delete",
}

// AuditLog records mutating requests in the system log: who did what to
// which resource. Read-only requests pass through untouched.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		action, mutating := auditActions[c.Request.Method]
		if !mutating {
			c.Next()
			return
		}

		var snippet string
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(body))
				if len(body) > maxAuditBody {
					body = body[:maxAuditBody]
				}
				snippet = string(body)
			}
		}

		c.Next()

		// Only record requests that actually changed something.
		if c.Writer.Status() >= 400 {
			return
		}

		module := routeModule(c.FullPath())
		if module == "" {
			return
		}

		var userID *uuid.UUID
		if id := GetUserID(c); id != uuid.Nil {
			userID = &id
		}

		detail := c.Request.Method + " " + c.Request.URL.Path
		if snippet != "" {
			detail += " body=" + snippet
		}
		services.LogInfo(module, action, detail, userID, c.ClientIP(), c.Request.UserAgent(), nil)
	}
}

// routeModule maps an API route to its audit module name.
func routeModule(fullPath string) string {
	parts := strings.Split(strings.TrimPrefix(fullPath, "/api/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	switch parts[0] {
	case "professors", "criteria", "courses", "comments", "system-logs":
		return parts[0]
	}
	return ""
}
