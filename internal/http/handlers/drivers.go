package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	Drivers repositories.DriverRepository
}

type driverRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"`
}

// GET /api/drivers
func (h DriverHandler) List(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	drivers, err := h.Drivers.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

// GET /api/drivers/:id
func (h DriverHandler) Get(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	driverID, ok := pathID(c, "id")
	if !ok {
		return
	}
	driver, err := h.Drivers.GetByID(c.Request.Context(), vendorID, driverID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// POST /api/drivers
func (h DriverHandler) Create(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		RespondError(c, http.StatusBadRequest, "driver name is required", nil)
		return
	}
	if req.Status == "" {
		req.Status = models.DriverActive
	}

	driver, err := h.Drivers.Create(c.Request.Context(), models.Driver{
		VendorID:      vendorID,
		Name:          req.Name,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		Status:        req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

// PUT /api/drivers/:id
func (h DriverHandler) Update(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	driverID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	err := h.Drivers.Update(c.Request.Context(), models.Driver{
		ID:            driverID,
		VendorID:      vendorID,
		Name:          strings.TrimSpace(req.Name),
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		Status:        req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	driver, err := h.Drivers.GetByID(c.Request.Context(), vendorID, driverID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// DELETE /api/drivers/:id
func (h DriverHandler) Delete(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	driverID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Drivers.Delete(c.Request.Context(), vendorID, driverID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+name+" parameter", nil)
		return 0, false
	}
	return id, true
}
