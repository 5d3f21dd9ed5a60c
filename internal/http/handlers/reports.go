package handlers

import (
	"net/http"

	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/services"
	"fleetbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	Reports services.ReportsService
}

// GET /api/reports/earnings.xlsx?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h ReportsHandler) EarningsXLSX(c *gin.Context) {
	svc := h.Reports
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

	workbook, filename, err := svc.EarningsWorkbook(c.Request.Context(), middleware.GetVendorID(c), start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
