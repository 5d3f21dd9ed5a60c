package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type VendorRepository struct {
	DB *sql.DB
}

func (r VendorRepository) GetByID(ctx context.Context, vendorID int64) (models.Vendor, error) {
	var v models.Vendor
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(status, 'active'), created_at
		FROM vendors
		WHERE id = ?
		LIMIT 1`, vendorID,
	).Scan(&v.ID, &v.Name, &v.Email, &v.Status, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vendor{}, domain.NotFoundError{Resource: "vendor"}
		}
		return models.Vendor{}, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// GetByEmail returns the vendor plus its stored bcrypt hash for login.
func (r VendorRepository) GetByEmail(ctx context.Context, email string) (models.Vendor, string, error) {
	var (
		v    models.Vendor
		hash string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(password_hash, ''),
		       COALESCE(status, 'active'), created_at
		FROM vendors
		WHERE email = ?
		LIMIT 1`, email,
	).Scan(&v.ID, &v.Name, &v.Email, &hash, &v.Status, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vendor{}, "", domain.NotFoundError{Resource: "vendor"}
		}
		return models.Vendor{}, "", fmt.Errorf("get vendor by email: %w", err)
	}
	return v, hash, nil
}

func (r VendorRepository) Create(ctx context.Context, name, email, passwordHash string) (models.Vendor, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO vendors (name, email, password_hash, status)
		VALUES (?, ?, ?, 'active')`, name, email, passwordHash)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return models.Vendor{}, domain.ConflictError{Resource: "vendor", Msg: "email already registered", Err: err}
		}
		return models.Vendor{}, fmt.Errorf("insert vendor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Vendor{}, fmt.Errorf("vendor id: %w", err)
	}
	return r.GetByID(ctx, id)
}
