package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/types"
)

// StatusFor maps an operation error to an HTTP status
func StatusFor(err error) int {
	var genErr *service.GenerationError
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr), errors.Is(err, service.ErrEmptyIngredients), errors.Is(err, service.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoRecipe), errors.Is(err, service.ErrSessionBusy):
		return http.StatusConflict
	case errors.As(err, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error attached with c.Error as JSON and
// turns panics into a 500 response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				observability.LoggerFromContext(c.Request.Context()).Error("panic while handling request", "panic", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		notice := service.NoticeFor(err)
		if status >= http.StatusInternalServerError {
			observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
		}
		c.JSON(status, types.ErrorResponse{Error: notice.Text, Kind: string(notice.Kind)})
	}
}
