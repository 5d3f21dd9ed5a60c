package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) ListByVendor(ctx context.Context, vendorID int64) ([]models.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, vendor_id, COALESCE(registration_no, ''), COALESCE(model, ''),
		       COALESCE(vehicle_type, ''), COALESCE(status, 'active'), created_at
		FROM vehicles
		WHERE vendor_id = ?
		ORDER BY id DESC`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.VendorID, &v.RegistrationNo, &v.Model, &v.VehicleType, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicle rows: %w", err)
	}
	return vehicles, nil
}

func (r VehicleRepository) GetByID(ctx context.Context, vendorID, vehicleID int64) (models.Vehicle, error) {
	var v models.Vehicle
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, vendor_id, COALESCE(registration_no, ''), COALESCE(model, ''),
		       COALESCE(vehicle_type, ''), COALESCE(status, 'active'), created_at
		FROM vehicles
		WHERE id = ? AND vendor_id = ?
		LIMIT 1`, vehicleID, vendorID,
	).Scan(&v.ID, &v.VendorID, &v.RegistrationNo, &v.Model, &v.VehicleType, &v.Status, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
		}
		return models.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO vehicles (vendor_id, registration_no, model, vehicle_type, status)
		VALUES (?, ?, ?, ?, ?)`,
		v.VendorID, v.RegistrationNo, v.Model, v.VehicleType, v.Status)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("insert vehicle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("vehicle id: %w", err)
	}
	v.ID = id
	return v, nil
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET registration_no = ?, model = ?, vehicle_type = ?, status = ?
		WHERE id = ? AND vendor_id = ?`,
		v.RegistrationNo, v.Model, v.VehicleType, v.Status, v.ID, v.VendorID)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func (r VehicleRepository) Delete(ctx context.Context, vendorID, vehicleID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ? AND vendor_id = ?`, vehicleID, vendorID)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}
