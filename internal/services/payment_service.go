package services

import (
	"context"
	"fmt"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/gateway"
	"fleetbackend/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const gatewayName = "zoho"

// VendorGetter is satisfied by repositories.VendorRepository.
type VendorGetter interface {
	GetByID(ctx context.Context, vendorID int64) (models.Vendor, error)
}

// PaymentStore is the slice of repositories.PaymentRepository the initiation
// flow needs.
type PaymentStore interface {
	Create(ctx context.Context, pt models.PaymentTransaction) error
	GetByID(ctx context.Context, id string) (models.PaymentTransaction, error)
	LinkWalletTransaction(ctx context.Context, id string, walletTransactionID int64) error
}

// GatewayClient is satisfied by gateway.Client.
type GatewayClient interface {
	RefreshAccessToken(ctx context.Context) (string, error)
	CreatePaymentLink(ctx context.Context, accessToken string, plr gateway.PaymentLinkRequest) (gateway.PaymentLink, error)
}

// WalletCreditor is the slice of WalletService the test-mode flow needs.
type WalletCreditor interface {
	Credit(ctx context.Context, in LedgerInput) (models.WalletTransaction, error)
}

// PaymentService creates payment transactions. Live mode asks the gateway
// for a hosted payment page; without credentials it simulates an immediate
// success so development environments still exercise the wallet flow.
type PaymentService struct {
	Vendors   VendorGetter
	Payments  PaymentStore
	Wallet    WalletCreditor
	Gateway   GatewayClient
	Live      bool
	RequestID string
}

type InitiateResult struct {
	PaymentID  string               `json:"payment_id"`
	Status     models.PaymentStatus `json:"status"`
	PaymentURL string               `json:"payment_url,omitempty"`
}

// Initiate validates the request and creates exactly one payment transaction.
// The generated id doubles as the gateway receipt/reference, so the webhook
// can recover the row even when the gateway reports only its own id.
func (s PaymentService) Initiate(ctx context.Context, vendorID int64, amount decimal.Decimal, description string) (InitiateResult, error) {
	if !amount.IsPositive() {
		return InitiateResult{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return InitiateResult{}, err
	}

	paymentID := uuid.NewString()
	if !s.Live {
		return s.initiateSimulated(ctx, vendor, paymentID, amount, description)
	}
	return s.initiateLive(ctx, vendor, paymentID, amount, description)
}

func (s PaymentService) initiateLive(ctx context.Context, vendor models.Vendor, paymentID string, amount decimal.Decimal, description string) (InitiateResult, error) {
	token, err := s.Gateway.RefreshAccessToken(ctx)
	if err != nil {
		return InitiateResult{}, err
	}

	link, err := s.Gateway.CreatePaymentLink(ctx, token, gateway.PaymentLinkRequest{
		Amount:      amount,
		Currency:    "INR",
		Description: description,
		ReferenceID: paymentID,
	})
	if err != nil {
		return InitiateResult{}, err
	}

	pt := models.PaymentTransaction{
		ID:                   paymentID,
		VendorID:             vendor.ID,
		Amount:               amount,
		Currency:             "INR",
		Gateway:              gatewayName,
		GatewayTransactionID: link.PaymentID,
		GatewayPaymentID:     link.PaymentID,
		Status:               models.PaymentPending,
		PaymentURL:           link.URL,
		Description:          description,
	}
	if err := s.Payments.Create(ctx, pt); err != nil {
		// The gateway link already exists; this row is the only local record
		// of it. Surface as partial failure so it lands in reconciliation,
		// not in a blind retry.
		utils.LogEvent(s.RequestID, "payment", "initiate",
			fmt.Sprintf("PARTIAL FAILURE payment_id=%s gateway_payment_id=%s: %v", paymentID, link.PaymentID, err))
		return InitiateResult{}, domain.PartialFailureError{
			Op:       "initiate payment",
			External: "payment link " + link.PaymentID,
			Err:      err,
		}
	}

	utils.LogEvent(s.RequestID, "payment", "initiate",
		fmt.Sprintf("payment_id=%s vendor_id=%d amount=%s", paymentID, vendor.ID, amount.StringFixed(2)))
	return InitiateResult{PaymentID: paymentID, Status: models.PaymentPending, PaymentURL: link.URL}, nil
}

// initiateSimulated synthesizes a successful payment and credits the wallet
// immediately; no external call is made.
func (s PaymentService) initiateSimulated(ctx context.Context, vendor models.Vendor, paymentID string, amount decimal.Decimal, description string) (InitiateResult, error) {
	now := utils.NowUTC()
	pt := models.PaymentTransaction{
		ID:          paymentID,
		VendorID:    vendor.ID,
		Amount:      amount,
		Currency:    "INR",
		Gateway:     "simulated",
		Status:      models.PaymentSuccess,
		Description: description,
		CompletedAt: &now,
	}
	if err := s.Payments.Create(ctx, pt); err != nil {
		return InitiateResult{}, err
	}

	wt, err := s.Wallet.Credit(ctx, LedgerInput{
		VendorID:    vendor.ID,
		Amount:      amount,
		Description: fmt.Sprintf("%s (Payment ID: %s)", description, paymentID),
		Reference:   paymentID,
	})
	if err != nil {
		return InitiateResult{}, err
	}
	if err := s.Payments.LinkWalletTransaction(ctx, paymentID, wt.ID); err != nil {
		utils.LogEvent(s.RequestID, "payment", "initiate", "link wallet transaction failed: "+err.Error())
	}

	utils.LogEvent(s.RequestID, "payment", "initiate",
		fmt.Sprintf("simulated payment_id=%s vendor_id=%d amount=%s", paymentID, vendor.ID, amount.StringFixed(2)))
	return InitiateResult{PaymentID: paymentID, Status: models.PaymentSuccess}, nil
}

// Get returns one payment transaction for the vendor.
func (s PaymentService) Get(ctx context.Context, vendorID int64, paymentID string) (models.PaymentTransaction, error) {
	pt, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return models.PaymentTransaction{}, err
	}
	if pt.VendorID != vendorID {
		return models.PaymentTransaction{}, domain.NotFoundError{Resource: "payment transaction"}
	}
	return pt, nil
}
