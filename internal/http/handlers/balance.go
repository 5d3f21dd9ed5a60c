package handlers

import (
	"net/http"

	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/services"
	"fleetbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	Balance services.BalanceService
}

// GET /api/balance?date=YYYY-MM-DD
func (h BalanceHandler) Get(c *gin.Context) {
	svc := h.Balance
	svc.RequestID = middleware.GetRequestID(c)

	date := c.DefaultQuery("date", utils.FormatDate(utils.NowUTC()))
	localDate, err := utils.ParseDate(date)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}

	balance, err := svc.ComputeBalance(c.Request.Context(), middleware.GetVendorID(c), localDate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GET /api/balance/series?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h BalanceHandler) Series(c *gin.Context) {
	svc := h.Balance
	svc.RequestID = middleware.GetRequestID(c)

	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "start must be YYYY-MM-DD", nil)
		return
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "end must be YYYY-MM-DD", nil)
		return
	}

	series, err := svc.BalanceSeries(c.Request.Context(), middleware.GetVendorID(c), start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}
