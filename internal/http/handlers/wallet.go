package handlers

import (
	"net/http"
	"strconv"

	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	Wallet    services.WalletService
	Statement services.StatementService
}

type ledgerRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	DriverID    int64           `json:"driver_id"`
	Date        string          `json:"date"`
}

// GET /api/wallet
func (h WalletHandler) Get(c *gin.Context) {
	svc := h.Wallet
	svc.RequestID = middleware.GetRequestID(c)

	wallet, err := svc.Get(c.Request.Context(), middleware.GetVendorID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// POST /api/wallet/credit
func (h WalletHandler) Credit(c *gin.Context) {
	h.applyLedger(c, true)
}

// POST /api/wallet/debit
func (h WalletHandler) Debit(c *gin.Context) {
	h.applyLedger(c, false)
}

func (h WalletHandler) applyLedger(c *gin.Context, credit bool) {
	svc := h.Wallet
	svc.RequestID = middleware.GetRequestID(c)

	var req ledgerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	in := services.LedgerInput{
		VendorID:    middleware.GetVendorID(c),
		DriverID:    req.DriverID,
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
		Date:        req.Date,
	}

	var (
		wt  models.WalletTransaction
		err error
	)
	if credit {
		wt, err = svc.Credit(c.Request.Context(), in)
	} else {
		wt, err = svc.Debit(c.Request.Context(), in)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": wt})
}

// GET /api/wallet/transactions?limit=N
func (h WalletHandler) Transactions(c *gin.Context) {
	svc := h.Wallet
	svc.RequestID = middleware.GetRequestID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	transactions, err := svc.Transactions(c.Request.Context(), middleware.GetVendorID(c), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GET /api/wallet/statement.pdf?limit=N
func (h WalletHandler) StatementPDF(c *gin.Context) {
	svc := h.Statement
	svc.RequestID = middleware.GetRequestID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	pdf, filename, err := svc.WalletStatement(c.Request.Context(), middleware.GetVendorID(c), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
