package models

import "time"

const (
	DriverActive   = "active"
	DriverInactive = "inactive"
)

type Driver struct {
	ID            int64     `json:"id"`
	VendorID      int64     `json:"vendor_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	LicenseNumber string    `json:"license_number"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vehicle struct {
	ID             int64     `json:"id"`
	VendorID       int64     `json:"vendor_id"`
	RegistrationNo string    `json:"registration_no"`
	Model          string    `json:"model"`
	VehicleType    string    `json:"vehicle_type"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
