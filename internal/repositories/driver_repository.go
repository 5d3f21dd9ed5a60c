package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
)

type DriverRepository struct {
	DB *sql.DB
}

// ListByVendor returns all drivers belonging to a vendor, newest first.
func (r DriverRepository) ListByVendor(ctx context.Context, vendorID int64) ([]models.Driver, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, vendor_id, COALESCE(name, ''), COALESCE(phone, ''),
		       COALESCE(license_number, ''), COALESCE(status, 'active'), created_at
		FROM drivers
		WHERE vendor_id = ?
		ORDER BY id DESC`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	drivers := []models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.VendorID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("driver rows: %w", err)
	}
	return drivers, nil
}

// ListIDsByVendor returns the driver ids used as join keys by the payout
// summarizer. Joins are always id-based; names are display-only.
func (r DriverRepository) ListIDsByVendor(ctx context.Context, vendorID int64) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM drivers WHERE vendor_id = ?`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list driver ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan driver id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("driver id rows: %w", err)
	}
	return ids, nil
}

func (r DriverRepository) GetByID(ctx context.Context, vendorID, driverID int64) (models.Driver, error) {
	var d models.Driver
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, vendor_id, COALESCE(name, ''), COALESCE(phone, ''),
		       COALESCE(license_number, ''), COALESCE(status, 'active'), created_at
		FROM drivers
		WHERE id = ? AND vendor_id = ?
		LIMIT 1`, driverID, vendorID,
	).Scan(&d.ID, &d.VendorID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Status, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver"}
		}
		return models.Driver{}, fmt.Errorf("get driver: %w", err)
	}
	return d, nil
}

func (r DriverRepository) Create(ctx context.Context, d models.Driver) (models.Driver, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO drivers (vendor_id, name, phone, license_number, status)
		VALUES (?, ?, ?, ?, ?)`,
		d.VendorID, d.Name, d.Phone, d.LicenseNumber, d.Status)
	if err != nil {
		return models.Driver{}, fmt.Errorf("insert driver: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Driver{}, fmt.Errorf("driver id: %w", err)
	}
	d.ID = id
	return d, nil
}

func (r DriverRepository) Update(ctx context.Context, d models.Driver) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE drivers
		SET name = ?, phone = ?, license_number = ?, status = ?
		WHERE id = ? AND vendor_id = ?`,
		d.Name, d.Phone, d.LicenseNumber, d.Status, d.ID, d.VendorID)
	if err != nil {
		return fmt.Errorf("update driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "driver"}
	}
	return nil
}

// Delete removes the driver row only. Historical trip records keep their
// driver_id and are not cascaded.
func (r DriverRepository) Delete(ctx context.Context, vendorID, driverID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM drivers WHERE id = ? AND vendor_id = ?`, driverID, vendorID)
	if err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "driver"}
	}
	return nil
}
