package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
	"github.com/rs/zerolog"
)

// classify maps a service error onto an HTTP status and API error code.
// Specific errors are checked before the kinds they wrap.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrProfileIncomplete):
		return http.StatusUnauthorized, response.ErrProfileIncomplete
	case errors.Is(err, service.ErrAssessmentClosed):
		return http.StatusForbidden, response.ErrAssessmentClosed
	case errors.Is(err, service.ErrAlreadyCompleted):
		return http.StatusForbidden, response.ErrAlreadyCompleted
	case errors.Is(err, service.ErrNoAssessmentAssigned):
		return http.StatusNotFound, response.ErrNoAssessmentAssigned
	case errors.Is(err, service.ErrSessionInvalidated), errors.Is(err, service.ErrNoActiveSession):
		return http.StatusUnauthorized, response.ErrSessionInvalidated
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, response.ErrTokenInvalid
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, response.ErrForbidden
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, response.ErrForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// fail writes the error envelope for err. Validation errors carry their field
// map; unexpected errors are logged and reported as retryable.
func fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, verr.Fields)
		return
	}

	status, code := classify(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	response.Fail(c, status, code)
}
