package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/gateway"
	"fleetbackend/internal/utils"

	"github.com/shopspring/decimal"
)

// PaymentWebhookStore is the slice of repositories.PaymentRepository the
// webhook handler needs.
type PaymentWebhookStore interface {
	GetByID(ctx context.Context, id string) (models.PaymentTransaction, error)
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (models.PaymentTransaction, error)
	SetGatewayPaymentID(ctx context.Context, id, gatewayPaymentID string) error
	TransitionFromPending(ctx context.Context, id string, newStatus models.PaymentStatus, metadata json.RawMessage, completedAt *time.Time) (bool, error)
	SaveMetadata(ctx context.Context, id string, metadata json.RawMessage) error
	LinkWalletTransaction(ctx context.Context, id string, walletTransactionID int64) error
}

// WalletLedger is the slice of repositories.WalletRepository the webhook
// handler needs. The wallet must already exist (provisioned on first
// access); the webhook never creates one.
type WalletLedger interface {
	GetByVendor(ctx context.Context, vendorID int64) (models.Wallet, error)
	AppendTransaction(ctx context.Context, wt models.WalletTransaction) (models.WalletTransaction, error)
}

// WebhookService processes gateway callbacks. Deliveries are at-least-once
// and unordered; the pending->terminal transition is a conditional update so
// a re-delivered or concurrent webhook can never produce a second credit.
type WebhookService struct {
	Payments PaymentWebhookStore
	Wallets  WalletLedger

	SigningKey    string
	AllowUnsigned bool
	RequestID     string
}

type WebhookResult struct {
	Status    models.PaymentStatus `json:"status"`
	Duplicate bool                 `json:"duplicate,omitempty"`
}

type webhookPaymentObject struct {
	ID          string      `json:"id"`
	PaymentID   string      `json:"payment_id"`
	ReferenceID string      `json:"reference_id"`
	Status      string      `json:"status"`
	Amount      json.Number `json:"amount"`
}

type webhookPayload struct {
	Payment *webhookPaymentObject `json:"payment"`
	webhookPaymentObject
}

// Handle verifies, parses and applies one webhook delivery.
func (s WebhookService) Handle(ctx context.Context, rawBody []byte, signature string) (WebhookResult, error) {
	if err := s.checkSignature(rawBody, signature); err != nil {
		return WebhookResult{}, err
	}

	gatewayPaymentID, referenceID, gatewayStatus, amountMinor, err := parseWebhook(rawBody)
	if err != nil {
		return WebhookResult{}, err
	}

	pt, foundByReference, err := s.resolve(ctx, referenceID, gatewayPaymentID)
	if err != nil {
		return WebhookResult{}, err
	}

	// Backfill the gateway's own id when we only knew our reference.
	if foundByReference && gatewayPaymentID != "" && pt.GatewayPaymentID == "" {
		if err := s.Payments.SetGatewayPaymentID(ctx, pt.ID, gatewayPaymentID); err != nil {
			utils.LogEvent(s.RequestID, "webhook", "handle", "gateway id backfill failed: "+err.Error())
		}
	}

	newStatus := mapGatewayStatus(gatewayStatus)

	// Unrecognized vocabulary never forces a terminal transition; keep the
	// payload for audit and acknowledge.
	if !newStatus.Terminal() {
		if err := s.Payments.SaveMetadata(ctx, pt.ID, json.RawMessage(rawBody)); err != nil {
			return WebhookResult{}, domain.InternalError{Msg: "persist webhook metadata", Err: err}
		}
		return WebhookResult{Status: pt.Status}, nil
	}

	// Re-delivery for an already-terminal transaction: absorb. If an
	// earlier delivery won the transition but died before crediting, the
	// retry repairs the credit here.
	if pt.Status.Terminal() {
		if err := s.Payments.SaveMetadata(ctx, pt.ID, json.RawMessage(rawBody)); err != nil {
			utils.LogEvent(s.RequestID, "webhook", "handle", "metadata update on duplicate failed: "+err.Error())
		}
		if err := s.repairCredit(ctx, pt, gatewayPaymentID, amountMinor); err != nil {
			return WebhookResult{}, err
		}
		return WebhookResult{Status: pt.Status, Duplicate: true}, nil
	}

	var completedAt *time.Time
	if newStatus == models.PaymentSuccess {
		now := utils.NowUTC()
		completedAt = &now
	}

	won, err := s.Payments.TransitionFromPending(ctx, pt.ID, newStatus, json.RawMessage(rawBody), completedAt)
	if err != nil {
		return WebhookResult{}, domain.InternalError{Msg: "transition payment", Err: err}
	}
	if !won {
		// A concurrent delivery got there first; re-read and acknowledge.
		current, err := s.Payments.GetByID(ctx, pt.ID)
		if err != nil {
			return WebhookResult{}, err
		}
		if err := s.repairCredit(ctx, current, gatewayPaymentID, amountMinor); err != nil {
			return WebhookResult{}, err
		}
		utils.LogEvent(s.RequestID, "webhook", "handle",
			fmt.Sprintf("duplicate delivery absorbed payment_id=%s status=%s", pt.ID, current.Status))
		return WebhookResult{Status: current.Status, Duplicate: true}, nil
	}

	if newStatus == models.PaymentSuccess {
		if err := s.creditWallet(ctx, pt, gatewayPaymentID, amountMinor); err != nil {
			return WebhookResult{}, err
		}
	}

	utils.LogEvent(s.RequestID, "webhook", "handle",
		fmt.Sprintf("payment_id=%s %s -> %s", pt.ID, models.PaymentPending, newStatus))
	return WebhookResult{Status: newStatus}, nil
}

func (s WebhookService) checkSignature(rawBody []byte, signature string) error {
	if s.SigningKey == "" {
		// No key configured at all: unverified mode.
		return nil
	}
	if signature == "" {
		if s.AllowUnsigned {
			return nil
		}
		return domain.UnauthorizedError{Msg: "missing webhook signature"}
	}
	if !gateway.VerifySignature(rawBody, signature, s.SigningKey) {
		return domain.UnauthorizedError{Msg: "invalid webhook signature"}
	}
	return nil
}

func parseWebhook(rawBody []byte) (gatewayPaymentID, referenceID, status string, amountMinor int64, err error) {
	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return "", "", "", 0, domain.ValidationError{Field: "body", Msg: "unparseable payload", Err: err}
	}

	inner := payload.webhookPaymentObject
	if payload.Payment != nil {
		inner = *payload.Payment
	}

	gatewayPaymentID = firstNonEmpty(inner.PaymentID, inner.ID, payload.PaymentID, payload.ID)
	referenceID = firstNonEmpty(inner.ReferenceID, payload.ReferenceID)
	status = firstNonEmpty(inner.Status, payload.Status)

	amountStr := string(inner.Amount)
	if amountStr == "" {
		amountStr = string(payload.Amount)
	}
	if amountStr != "" {
		if d, derr := decimal.NewFromString(amountStr); derr == nil {
			amountMinor = d.Round(0).IntPart()
		}
	}

	if gatewayPaymentID == "" && referenceID == "" {
		return "", "", "", 0, domain.ValidationError{Field: "body", Msg: "missing payment identifiers"}
	}
	return gatewayPaymentID, referenceID, status, amountMinor, nil
}

// resolve looks up the local transaction by reference id first, then by the
// gateway's payment id.
func (s WebhookService) resolve(ctx context.Context, referenceID, gatewayPaymentID string) (models.PaymentTransaction, bool, error) {
	if referenceID != "" {
		pt, err := s.Payments.GetByID(ctx, referenceID)
		if err == nil {
			return pt, true, nil
		}
		if !domain.IsNotFound(err) {
			return models.PaymentTransaction{}, false, err
		}
	}
	if gatewayPaymentID != "" {
		pt, err := s.Payments.GetByGatewayPaymentID(ctx, gatewayPaymentID)
		if err == nil {
			return pt, false, nil
		}
		if !domain.IsNotFound(err) {
			return models.PaymentTransaction{}, false, err
		}
	}
	return models.PaymentTransaction{}, false, domain.NotFoundError{Resource: "payment transaction"}
}

// mapGatewayStatus translates the gateway vocabulary onto our state machine.
func mapGatewayStatus(gatewayStatus string) models.PaymentStatus {
	switch gatewayStatus {
	case "authorized", "captured", "success":
		return models.PaymentSuccess
	case "failed":
		return models.PaymentFailed
	case "cancelled", "canceled":
		return models.PaymentCancelled
	default:
		return models.PaymentPending
	}
}

// repairCredit re-runs the wallet credit for a transaction that reached
// success without a linked ledger entry. The ledger's unique reference makes
// the retry safe even against a concurrent repair.
func (s WebhookService) repairCredit(ctx context.Context, pt models.PaymentTransaction, gatewayPaymentID string, amountMinor int64) error {
	if pt.Status != models.PaymentSuccess || pt.WalletTransactionID != 0 {
		return nil
	}
	if gatewayPaymentID == "" {
		gatewayPaymentID = pt.GatewayPaymentID
	}
	utils.LogEvent(s.RequestID, "webhook", "handle",
		fmt.Sprintf("repairing missing credit payment_id=%s", pt.ID))
	return s.creditWallet(ctx, pt, gatewayPaymentID, amountMinor)
}

// creditWallet appends the single wallet credit for a successful payment and
// records the linkage. Gateway amounts arrive in minor units; a missing
// amount falls back to the amount we stored at initiation.
func (s WebhookService) creditWallet(ctx context.Context, pt models.PaymentTransaction, gatewayPaymentID string, amountMinor int64) error {
	wallet, err := s.Wallets.GetByVendor(ctx, pt.VendorID)
	if err != nil {
		return err
	}

	amount := pt.Amount
	if amountMinor > 0 {
		amount = utils.MinorToMajor(amountMinor)
	}

	wt, err := s.Wallets.AppendTransaction(ctx, models.WalletTransaction{
		WalletID:        wallet.ID,
		VendorID:        pt.VendorID,
		Type:            models.TransactionCredit,
		Amount:          amount,
		Description:     fmt.Sprintf("%s (Payment ID: %s)", pt.Description, gatewayPaymentID),
		Reference:       gatewayPaymentID,
		TransactionDate: utils.FormatDate(utils.NowUTC()),
	})
	if domain.IsConflict(err) {
		// A concurrent delivery already recorded this credit; UNIQUE on the
		// ledger reference keeps it single.
		utils.LogEvent(s.RequestID, "webhook", "handle",
			fmt.Sprintf("credit already recorded payment_id=%s reference=%s", pt.ID, gatewayPaymentID))
		return nil
	}
	if err != nil {
		return domain.InternalError{Msg: "credit wallet", Err: err}
	}

	if err := s.Payments.LinkWalletTransaction(ctx, pt.ID, wt.ID); err != nil {
		utils.LogEvent(s.RequestID, "webhook", "handle", "link wallet transaction failed: "+err.Error())
	}

	utils.LogEvent(s.RequestID, "webhook", "handle",
		fmt.Sprintf("wallet credited vendor_id=%d amount=%s", pt.VendorID, amount.StringFixed(2)))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
