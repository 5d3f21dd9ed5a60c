package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionCredit is the admin-entered daily allocation for a vendor.
// One authoritative row per (vendor_id, credit_date); writes are upserts.
type CommissionCredit struct {
	ID         int64           `json:"id"`
	VendorID   int64           `json:"vendor_id"`
	CreditDate string          `json:"credit_date"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  string          `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
