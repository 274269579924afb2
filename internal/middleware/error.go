package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "expenza/internal/errors"
	"expenza/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context into the
// JSON error envelope used across the API. Known AppErrors keep their
// code and message; anything else is logged with its request ID and
// answered with a generic INTERNAL_ERROR so LLM or database details
// never leak to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error matters; handlers abort after setting it.
		err := c.Errors.Last().Err
		requestID, _ := c.Get(requestIDKey)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"request_id", requestID,
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			writeErrorEnvelope(c, appErr)
			return
		}

		logger.Get().Errorw("unexpected error",
			"request_id", requestID,
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		writeErrorEnvelope(c, apperrors.ErrInternalServer)
	}
}

func writeErrorEnvelope(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
