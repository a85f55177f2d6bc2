package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "budgetmaster/internal/errors"
)

// PipelineAuthMiddleware guards the bank-statement import routes with the
// X-API-Key header. The :userID path parameter names the user the pipeline
// is importing for, so pipeline routes can share the regular handlers.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}

		userID := strings.TrimSpace(c.Param("userID"))
		if userID == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "User ID is required"))
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
