package handlers

import (
	"net/http"

	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/repositories"
	"fleetbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CommissionHandler struct {
	Commissions repositories.CommissionRepository
}

type commissionRequest struct {
	CreditDate string          `json:"credit_date"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes"`
	CreatedBy  string          `json:"created_by"`
}

// PUT /api/commissions
func (h CommissionHandler) Upsert(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	var req commissionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if _, err := utils.ParseDate(req.CreditDate); err != nil {
		RespondError(c, http.StatusBadRequest, "credit_date must be YYYY-MM-DD", nil)
		return
	}
	if req.Amount.IsNegative() {
		RespondError(c, http.StatusBadRequest, "amount cannot be negative", nil)
		return
	}

	credit, err := h.Commissions.Upsert(c.Request.Context(), vendorID, req.CreditDate, req.Amount, req.Notes, req.CreatedBy)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": credit})
}

// GET /api/commissions?date=YYYY-MM-DD
func (h CommissionHandler) Get(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	date := c.Query("date")
	if date == "" {
		date = utils.FormatDate(utils.NowUTC())
	}
	if _, err := utils.ParseDate(date); err != nil {
		RespondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}

	credit, err := h.Commissions.Get(c.Request.Context(), vendorID, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": credit})
}
