package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hramlk99k/library-api/internal/middleware"
	"github.com/hramlk99k/library-api/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeFault logs the store error and answers with a generic message.
func writeFault(c *gin.Context, status int, code, message string, err error) {
	_ = c.Error(err)
	slog.ErrorContext(c.Request.Context(), message,
		slog.String("request_id", middleware.RequestIDFrom(c)),
		slog.String("code", code),
		slog.String("error", err.Error()),
	)
	writeError(c, status, code, message)
}
