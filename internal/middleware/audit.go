package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// AuditWriter persists audit rows.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditDenied records rejected back-office requests (401/403). Successful
// mutations are audited by the services themselves.
func AuditDenied(writer AuditWriter, resource string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if writer == nil || (status != http.StatusUnauthorized && status != http.StatusForbidden) {
			return
		}

		var userID *string
		if claims := ClaimsFromContext(c); claims != nil {
			id := claims.UserID
			userID = &id
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		body, _ := json.Marshal(map[string]interface{}{
			"path":   path,
			"method": c.Request.Method,
			"status": status,
		})

		err := writer.CreateAuditLog(c.Request.Context(), &models.AuditLog{
			UserID:    userID,
			Action:    models.AuditActionDenied,
			Resource:  resource,
			NewValues: body,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		if err != nil {
			logger.Warn("failed to record denied request", zap.Error(err))
		}
	}
}
