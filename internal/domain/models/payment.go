package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether the status admits no further transition.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentSuccess, PaymentFailed, PaymentCancelled:
		return true
	default:
		return false
	}
}

// PaymentTransaction records one attempt to move money through the gateway.
// ID doubles as the gateway-facing receipt/reference id, which is what lets
// the webhook recover the row even when the gateway's own id differs.
type PaymentTransaction struct {
	ID                   string          `json:"id"`
	VendorID             int64           `json:"vendor_id"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Gateway              string          `json:"payment_gateway"`
	GatewayTransactionID string          `json:"gateway_transaction_id,omitempty"`
	GatewayPaymentID     string          `json:"gateway_payment_id,omitempty"`
	Status               PaymentStatus   `json:"status"`
	PaymentURL           string          `json:"payment_url,omitempty"`
	Description          string          `json:"description"`
	Metadata             json.RawMessage `json:"metadata,omitempty"`
	WalletTransactionID  int64           `json:"wallet_transaction_id,omitempty"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
