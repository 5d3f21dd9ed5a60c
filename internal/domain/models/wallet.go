package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet keeps denormalized running totals for one vendor. The totals are
// only ever mutated together with a ledger append, inside one DB transaction,
// so balance = total_credited - total_debited holds at all times.
type Wallet struct {
	ID            int64           `json:"id"`
	VendorID      int64           `json:"vendor_id"`
	Balance       decimal.Decimal `json:"balance"`
	TotalCredited decimal.Decimal `json:"total_credited"`
	TotalDebited  decimal.Decimal `json:"total_debited"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

// WalletTransaction is an immutable ledger entry. DriverID is 0 when the
// entry is not tied to a driver; Reference carries an external identifier
// such as a gateway payment id.
type WalletTransaction struct {
	ID              int64           `json:"id"`
	WalletID        int64           `json:"wallet_id"`
	VendorID        int64           `json:"vendor_id"`
	DriverID        int64           `json:"driver_id,omitempty"`
	Type            TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference,omitempty"`
	TransactionDate string          `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}
