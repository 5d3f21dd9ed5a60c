package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentColumns = `
	id, vendor_id, amount, COALESCE(currency, 'INR'), COALESCE(payment_gateway, ''),
	COALESCE(gateway_transaction_id, ''), COALESCE(gateway_payment_id, ''), status,
	COALESCE(payment_url, ''), COALESCE(description, ''), COALESCE(metadata, 'null'),
	COALESCE(wallet_transaction_id, 0), completed_at, created_at, updated_at`

// Create persists a new payment transaction row.
func (r PaymentRepository) Create(ctx context.Context, pt models.PaymentTransaction) error {
	metadata := pt.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("null")
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payment_transactions
			(id, vendor_id, amount, currency, payment_gateway, gateway_transaction_id,
			 gateway_payment_id, status, payment_url, description, metadata, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pt.ID, pt.VendorID, pt.Amount, pt.Currency, pt.Gateway,
		nullString(pt.GatewayTransactionID), nullString(pt.GatewayPaymentID),
		string(pt.Status), nullString(pt.PaymentURL), pt.Description,
		[]byte(metadata), pt.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}

// GetByID loads a payment transaction by its reference id.
func (r PaymentRepository) GetByID(ctx context.Context, id string) (models.PaymentTransaction, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

// GetByGatewayPaymentID is the webhook fallback lookup when the payload
// carries no reference id.
func (r PaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (models.PaymentTransaction, error) {
	return r.get(ctx, `WHERE gateway_payment_id = ?`, gatewayPaymentID)
}

func (r PaymentRepository) get(ctx context.Context, where string, arg any) (models.PaymentTransaction, error) {
	var (
		pt       models.PaymentTransaction
		status   string
		metadata []byte
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions `+where+` LIMIT 1`, arg,
	).Scan(&pt.ID, &pt.VendorID, &pt.Amount, &pt.Currency, &pt.Gateway,
		&pt.GatewayTransactionID, &pt.GatewayPaymentID, &status,
		&pt.PaymentURL, &pt.Description, &metadata,
		&pt.WalletTransactionID, &pt.CompletedAt, &pt.CreatedAt, &pt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentTransaction{}, domain.NotFoundError{Resource: "payment transaction"}
		}
		return models.PaymentTransaction{}, fmt.Errorf("get payment transaction: %w", err)
	}
	pt.Status = models.PaymentStatus(status)
	pt.Metadata = json.RawMessage(metadata)
	return pt, nil
}

// SetGatewayPaymentID backfills the gateway's own payment id once the webhook
// reveals it.
func (r PaymentRepository) SetGatewayPaymentID(ctx context.Context, id, gatewayPaymentID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE payment_transactions
		SET gateway_payment_id = ?, updated_at = NOW()
		WHERE id = ?`, gatewayPaymentID, id)
	if err != nil {
		return fmt.Errorf("set gateway payment id: %w", err)
	}
	return nil
}

// TransitionFromPending applies the pending -> terminal state change as a
// conditional update. It returns false when the row was no longer pending,
// which is how concurrent or re-delivered webhooks lose the race without a
// second credit.
func (r PaymentRepository) TransitionFromPending(ctx context.Context, id string, newStatus models.PaymentStatus, metadata json.RawMessage, completedAt *time.Time) (bool, error) {
	if !newStatus.Terminal() {
		return false, domain.ValidationError{Field: "status", Msg: "transition target must be terminal"}
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE payment_transactions
		SET status = ?, metadata = ?, completed_at = ?, updated_at = NOW()
		WHERE id = ? AND status = 'pending'`,
		string(newStatus), []byte(metadata), completedAt, id)
	if err != nil {
		return false, fmt.Errorf("transition payment transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition rows: %w", err)
	}
	return n == 1, nil
}

// SaveMetadata stores the raw webhook payload for audit without touching the
// status, used when the gateway reports a status we do not force terminal.
func (r PaymentRepository) SaveMetadata(ctx context.Context, id string, metadata json.RawMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE payment_transactions
		SET metadata = ?, updated_at = NOW()
		WHERE id = ?`, []byte(metadata), id)
	if err != nil {
		return fmt.Errorf("save payment metadata: %w", err)
	}
	return nil
}

// LinkWalletTransaction records which ledger entry a successful payment
// produced.
func (r PaymentRepository) LinkWalletTransaction(ctx context.Context, id string, walletTransactionID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE payment_transactions
		SET wallet_transaction_id = ?, updated_at = NOW()
		WHERE id = ?`, walletTransactionID, id)
	if err != nil {
		return fmt.Errorf("link wallet transaction: %w", err)
	}
	return nil
}
