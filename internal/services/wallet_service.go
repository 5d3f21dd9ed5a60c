package services

import (
	"context"
	"strconv"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/utils"

	"github.com/shopspring/decimal"
)

// WalletStore is satisfied by repositories.WalletRepository.
type WalletStore interface {
	GetOrCreate(ctx context.Context, vendorID int64) (models.Wallet, error)
	GetByVendor(ctx context.Context, vendorID int64) (models.Wallet, error)
	AppendTransaction(ctx context.Context, wt models.WalletTransaction) (models.WalletTransaction, error)
	ListTransactions(ctx context.Context, vendorID int64, limit int) ([]models.WalletTransaction, error)
}

// WalletService fronts the append-only ledger. All mutations go through
// LedgerInput -> AppendTransaction; the wallet row itself is never written
// directly.
type WalletService struct {
	Wallets   WalletStore
	RequestID string
}

// LedgerInput describes one manual or payment-driven ledger append.
type LedgerInput struct {
	VendorID    int64
	DriverID    int64
	Amount      decimal.Decimal
	Description string
	Reference   string
	// Date is the vendor-local transaction date (YYYY-MM-DD); empty means today.
	Date string
}

// Get lazily provisions and returns the vendor's wallet.
func (s WalletService) Get(ctx context.Context, vendorID int64) (models.Wallet, error) {
	return s.Wallets.GetOrCreate(ctx, vendorID)
}

// Credit appends a credit entry and bumps the running totals.
func (s WalletService) Credit(ctx context.Context, in LedgerInput) (models.WalletTransaction, error) {
	return s.append(ctx, models.TransactionCredit, in)
}

// Debit appends a debit entry and bumps the running totals.
func (s WalletService) Debit(ctx context.Context, in LedgerInput) (models.WalletTransaction, error) {
	return s.append(ctx, models.TransactionDebit, in)
}

func (s WalletService) append(ctx context.Context, typ models.TransactionType, in LedgerInput) (models.WalletTransaction, error) {
	if in.VendorID <= 0 {
		return models.WalletTransaction{}, domain.ValidationError{Field: "vendor_id", Msg: "required"}
	}
	if !in.Amount.IsPositive() {
		return models.WalletTransaction{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}

	wallet, err := s.Wallets.GetOrCreate(ctx, in.VendorID)
	if err != nil {
		return models.WalletTransaction{}, err
	}

	date := in.Date
	if date == "" {
		date = utils.FormatDate(utils.NowUTC())
	}

	wt, err := s.Wallets.AppendTransaction(ctx, models.WalletTransaction{
		WalletID:        wallet.ID,
		VendorID:        in.VendorID,
		DriverID:        in.DriverID,
		Type:            typ,
		Amount:          in.Amount,
		Description:     in.Description,
		Reference:       in.Reference,
		TransactionDate: date,
	})
	if err != nil {
		return models.WalletTransaction{}, err
	}
	utils.LogEvent(s.RequestID, "wallet", string(typ),
		"vendor_id="+strconv.FormatInt(in.VendorID, 10)+" amount="+in.Amount.StringFixed(2))
	return wt, nil
}

// Transactions lists recent ledger entries.
func (s WalletService) Transactions(ctx context.Context, vendorID int64, limit int) ([]models.WalletTransaction, error) {
	if vendorID <= 0 {
		return nil, domain.ValidationError{Field: "vendor_id", Msg: "required"}
	}
	return s.Wallets.ListTransactions(ctx, vendorID, limit)
}
