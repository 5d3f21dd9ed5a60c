package handlers

import (
	"net/http"
	"strings"

	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	Vehicles repositories.VehicleRepository
}

type vehicleRequest struct {
	RegistrationNo string `json:"registration_no"`
	Model          string `json:"model"`
	VehicleType    string `json:"vehicle_type"`
	Status         string `json:"status"`
}

// GET /api/vehicles
func (h VehicleHandler) List(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	vehicles, err := h.Vehicles.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// GET /api/vehicles/:id
func (h VehicleHandler) Get(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.Vehicles.GetByID(c.Request.Context(), vendorID, vehicleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// POST /api/vehicles
func (h VehicleHandler) Create(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.RegistrationNo = strings.ToUpper(strings.TrimSpace(req.RegistrationNo))
	if req.RegistrationNo == "" {
		RespondError(c, http.StatusBadRequest, "registration number is required", nil)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	vehicle, err := h.Vehicles.Create(c.Request.Context(), models.Vehicle{
		VendorID:       vendorID,
		RegistrationNo: req.RegistrationNo,
		Model:          req.Model,
		VehicleType:    req.VehicleType,
		Status:         req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// PUT /api/vehicles/:id
func (h VehicleHandler) Update(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	err := h.Vehicles.Update(c.Request.Context(), models.Vehicle{
		ID:             vehicleID,
		VendorID:       vendorID,
		RegistrationNo: strings.ToUpper(strings.TrimSpace(req.RegistrationNo)),
		Model:          req.Model,
		VehicleType:    req.VehicleType,
		Status:         req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	vehicle, err := h.Vehicles.GetByID(c.Request.Context(), vendorID, vehicleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// DELETE /api/vehicles/:id
func (h VehicleHandler) Delete(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Vehicles.Delete(c.Request.Context(), vendorID, vehicleID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
