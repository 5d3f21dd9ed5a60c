package handlers

import (
	"io"
	"net/http"

	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/services"
	"fleetbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	Webhook services.WebhookService
}

// POST /api/webhooks/zoho
//
// Signature verification needs the exact bytes the gateway signed, so the
// body is read raw before any JSON decoding happens.
func (h WebhookHandler) Zoho(c *gin.Context) {
	svc := h.Webhook
	svc.RequestID = middleware.GetRequestID(c)

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unable to read request body", err)
		return
	}

	result, err := svc.Handle(c.Request.Context(), rawBody, c.GetHeader("X-Zoho-Signature"))
	if err != nil {
		utils.LogEvent(svc.RequestID, "webhook", "zoho", "webhook rejected: "+err.Error())
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "webhook processed",
		"status":    result.Status,
		"duplicate": result.Duplicate,
	})
}
