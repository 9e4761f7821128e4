package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liberhite/Aplikasipengajuan/internal/service"
)

// APIError carries an HTTP status alongside the message.
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware converts errors attached to the gin context into
// the JSON error envelope.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// ServiceError maps the coordinator's failure taxonomy to HTTP statuses.
// LockTimeout and StoreUnavailable are retryable and map to 5xx; the rest
// are terminal client errors.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, service.ErrPengajuanNotFound):
		Error(c, http.StatusNotFound, "nomor proses tidak ditemukan", err.Error())
	case errors.Is(err, service.ErrHandlerNotFound):
		Error(c, http.StatusNotFound, "PP tidak ditemukan", err.Error())
	case errors.Is(err, service.ErrNoEligibleHandler):
		Error(c, http.StatusUnprocessableEntity, "no eligible handler", err.Error())
	case errors.Is(err, service.ErrLockTimeout):
		Error(c, http.StatusServiceUnavailable, "assignment engine busy", err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		Error(c, http.StatusBadGateway, "record store unavailable", err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
