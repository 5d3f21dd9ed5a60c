package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	DB *sql.DB
}

// GetByVendor returns the vendor's wallet, or NotFoundError when it has not
// been provisioned yet.
func (r WalletRepository) GetByVendor(ctx context.Context, vendorID int64) (models.Wallet, error) {
	return scanWallet(r.DB.QueryRowContext(ctx, `
		SELECT id, vendor_id, balance, total_credited, total_debited, created_at, updated_at
		FROM wallets
		WHERE vendor_id = ?
		LIMIT 1`, vendorID))
}

// GetOrCreate lazily provisions the singleton wallet on first access.
// UNIQUE (vendor_id) makes the INSERT IGNORE safe under concurrent first
// accesses; whoever loses the race reads the surviving row.
func (r WalletRepository) GetOrCreate(ctx context.Context, vendorID int64) (models.Wallet, error) {
	w, err := r.GetByVendor(ctx, vendorID)
	if err == nil {
		return w, nil
	}
	if !domain.IsNotFound(err) {
		return models.Wallet{}, err
	}

	if _, err := r.DB.ExecContext(ctx, `
		INSERT IGNORE INTO wallets (vendor_id, balance, total_credited, total_debited)
		VALUES (?, 0, 0, 0)`, vendorID); err != nil {
		return models.Wallet{}, fmt.Errorf("provision wallet: %w", err)
	}
	return r.GetByVendor(ctx, vendorID)
}

// AppendTransaction inserts a ledger entry and bumps the wallet's running
// totals in the same DB transaction. Either both happen or neither does; a
// missing wallet row fails the whole append.
func (r WalletRepository) AppendTransaction(ctx context.Context, wt models.WalletTransaction) (models.WalletTransaction, error) {
	if !wt.Type.Valid() {
		return models.WalletTransaction{}, domain.ValidationError{Field: "transaction_type", Msg: "must be credit or debit"}
	}
	if !wt.Amount.IsPositive() {
		return models.WalletTransaction{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.WalletTransaction{}, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions
			(wallet_id, vendor_id, driver_id, transaction_type, amount, description, reference, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		wt.WalletID, wt.VendorID, nullInt64(wt.DriverID), string(wt.Type),
		wt.Amount, wt.Description, nullString(wt.Reference), wt.TransactionDate,
	)
	if err != nil {
		// UNIQUE (reference) turns a replayed external credit into a
		// conflict instead of a second ledger entry.
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return models.WalletTransaction{}, domain.ConflictError{Resource: "wallet transaction", Msg: "reference already recorded", Err: err}
		}
		return models.WalletTransaction{}, fmt.Errorf("insert wallet transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.WalletTransaction{}, fmt.Errorf("wallet transaction id: %w", err)
	}

	var updateRes sql.Result
	if wt.Type == models.TransactionCredit {
		updateRes, err = tx.ExecContext(ctx, `
			UPDATE wallets
			SET balance = balance + ?, total_credited = total_credited + ?, updated_at = NOW()
			WHERE id = ?`, wt.Amount, wt.Amount, wt.WalletID)
	} else {
		updateRes, err = tx.ExecContext(ctx, `
			UPDATE wallets
			SET balance = balance - ?, total_debited = total_debited + ?, updated_at = NOW()
			WHERE id = ?`, wt.Amount, wt.Amount, wt.WalletID)
	}
	if err != nil {
		return models.WalletTransaction{}, fmt.Errorf("update wallet totals: %w", err)
	}
	if n, err := updateRes.RowsAffected(); err != nil {
		return models.WalletTransaction{}, fmt.Errorf("wallet totals rows: %w", err)
	} else if n == 0 {
		return models.WalletTransaction{}, domain.NotFoundError{Resource: "wallet"}
	}

	if err := tx.Commit(); err != nil {
		return models.WalletTransaction{}, fmt.Errorf("commit append: %w", err)
	}

	wt.ID = id
	return wt, nil
}

// ListTransactions returns the newest ledger entries for a vendor.
func (r WalletRepository) ListTransactions(ctx context.Context, vendorID int64, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, wallet_id, vendor_id, COALESCE(driver_id, 0), transaction_type,
		       amount, COALESCE(description, ''), COALESCE(reference, ''),
		       DATE_FORMAT(transaction_date, '%Y-%m-%d'), created_at
		FROM wallet_transactions
		WHERE vendor_id = ?
		ORDER BY id DESC
		LIMIT ?`, vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	out := []models.WalletTransaction{}
	for rows.Next() {
		var (
			wt  models.WalletTransaction
			typ string
		)
		if err := rows.Scan(&wt.ID, &wt.WalletID, &wt.VendorID, &wt.DriverID, &typ,
			&wt.Amount, &wt.Description, &wt.Reference, &wt.TransactionDate, &wt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		wt.Type = models.TransactionType(typ)
		out = append(out, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wallet transaction rows: %w", err)
	}
	return out, nil
}

// SumLedger recomputes credit and debit totals from the full ledger, for
// reconciling the denormalized wallet totals.
func (r WalletRepository) SumLedger(ctx context.Context, walletID int64) (credited, debited decimal.Decimal, err error) {
	err = r.DB.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'credit' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'debit' THEN amount ELSE 0 END), 0)
		FROM wallet_transactions
		WHERE wallet_id = ?`, walletID,
	).Scan(&credited, &debited)
	if err != nil {
		err = fmt.Errorf("sum ledger: %w", err)
	}
	return credited, debited, err
}

func scanWallet(row *sql.Row) (models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.VendorID, &w.Balance, &w.TotalCredited, &w.TotalDebited, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Wallet{}, domain.NotFoundError{Resource: "wallet"}
		}
		return models.Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}

func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
