package handlers

import (
	"net/http"

	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

type PaymentHandler struct {
	Payments services.PaymentService
}

type initiateRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// POST /api/payments/initiate
func (h PaymentHandler) Initiate(c *gin.Context) {
	svc := h.Payments
	svc.RequestID = middleware.GetRequestID(c)

	var req initiateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	result, err := svc.Initiate(c.Request.Context(), middleware.GetVendorID(c), req.Amount, req.Description)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": result})
}

// GET /api/payments/:id
func (h PaymentHandler) Get(c *gin.Context) {
	svc := h.Payments
	svc.RequestID = middleware.GetRequestID(c)

	pt, err := svc.Get(c.Request.Context(), middleware.GetVendorID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": pt})
}

// GET /api/payments/:id/qr
//
// Renders the payment link as a PNG QR code so the frontend can show a
// scannable code instead of a bare URL.
func (h PaymentHandler) QR(c *gin.Context) {
	svc := h.Payments
	svc.RequestID = middleware.GetRequestID(c)

	pt, err := svc.Get(c.Request.Context(), middleware.GetVendorID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if pt.PaymentURL == "" {
		RespondError(c, http.StatusNotFound, "payment has no payment link to encode", nil)
		return
	}

	png, err := qrcode.Encode(pt.PaymentURL, qrcode.Medium, 256)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "QR code generation failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
