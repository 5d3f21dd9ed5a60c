package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"

	"github.com/shopspring/decimal"
)

// CommissionRepository stores admin-entered daily commission credits.
// commission_credits carries UNIQUE (vendor_id, credit_date); corrections
// overwrite the existing row so exactly one amount is authoritative per day.
type CommissionRepository struct {
	DB *sql.DB
}

// Upsert inserts or overwrites the credit for (vendor, date) and returns the
// stored row.
func (r CommissionRepository) Upsert(ctx context.Context, vendorID int64, creditDate string, amount decimal.Decimal, notes, createdBy string) (models.CommissionCredit, error) {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO commission_credits (vendor_id, credit_date, amount, notes, created_by)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE amount = ?, notes = ?, created_by = ?`,
		vendorID, creditDate, amount, notes, createdBy,
		amount, notes, createdBy,
	)
	if err != nil {
		return models.CommissionCredit{}, fmt.Errorf("upsert commission credit: %w", err)
	}

	credit, err := r.Get(ctx, vendorID, creditDate)
	if err != nil {
		return models.CommissionCredit{}, err
	}
	return credit, nil
}

// Get returns the credit for (vendor, date), or NotFoundError when no row
// exists.
func (r CommissionRepository) Get(ctx context.Context, vendorID int64, creditDate string) (models.CommissionCredit, error) {
	var c models.CommissionCredit
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, vendor_id, DATE_FORMAT(credit_date, '%Y-%m-%d'), amount,
		       COALESCE(notes, ''), COALESCE(created_by, ''), created_at
		FROM commission_credits
		WHERE vendor_id = ? AND credit_date = ?
		LIMIT 1`,
		vendorID, creditDate,
	).Scan(&c.ID, &c.VendorID, &c.CreditDate, &c.Amount, &c.Notes, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CommissionCredit{}, domain.NotFoundError{Resource: "commission credit"}
		}
		return models.CommissionCredit{}, fmt.Errorf("get commission credit: %w", err)
	}
	return c, nil
}
