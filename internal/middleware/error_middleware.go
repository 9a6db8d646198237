package middleware

import (
	"errors"
	"net/http"

	"threadline/internal/transport/httpdto"
	taxonomy "threadline/pkg/errors"
	"threadline/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached to the context as a typed
// response. Anything outside the taxonomy is an internal failure: logged in
// full, reported without detail.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status, code := classify(err)
		if status == http.StatusInternalServerError {
			l.With(c.Request.Context()).Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.JSON(status, httpdto.NewErrorResponse("internal error", code))
			return
		}
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, taxonomy.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, taxonomy.ErrPermissionDenied):
		return http.StatusForbidden, "PERMISSION_DENIED"
	case errors.Is(err, taxonomy.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, taxonomy.ErrAlreadyInTerminalState):
		return http.StatusConflict, "ALREADY_IN_TERMINAL_STATE"
	case errors.Is(err, taxonomy.ErrUnavailable):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
