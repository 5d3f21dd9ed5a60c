package handlers

import (
	"net/http"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["details"] = err.Error()
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsUnauthorized(err):
		RespondError(c, http.StatusUnauthorized, err.Error(), nil)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error(), nil)
	case domain.IsGateway(err):
		RespondError(c, http.StatusBadGateway, "payment gateway unavailable", err)
	case domain.IsPartialFailure(err):
		// External side effect committed without local bookkeeping; needs
		// manual reconciliation, not a client retry.
		RespondError(c, http.StatusInternalServerError, "payment created but not recorded; contact support", nil)
	default:
		RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}
