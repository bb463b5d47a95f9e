package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yfpulse/internal/domain/dto"
	"yfpulse/internal/logger"
)

// ErrorHandler is a Gin middleware that converts errors attached to the context
// (via c.Error) into a standardized JSON error response.
//
// Behavior:
//   - Runs after the handler chain completes.
//   - If the handler attached errors but never wrote a response, responds with
//     500 Internal Server Error and a dto.ErrorResponse built from the last error.
//   - Errors that were already answered by the handler are only logged.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	last := c.Errors.Last().Err
	logger.L().Error().
		Err(last).
		Str("path", c.FullPath()).
		Msg("request finished with errors")

	if c.Writer.Written() {
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last))
}

// AbortWithError stops the handler chain and writes a standardized JSON error response.
//
// Parameters:
//   - c (*gin.Context): The request context to abort.
//   - status (int): HTTP status code to respond with.
//   - message (string): Human-readable error message for the response body.
//   - err (error): Underlying cause, included in the response details (may be nil).
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		logger.L().Warn().
			Err(err).
			Int("status", status).
			Str("path", c.FullPath()).
			Msg(message)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
