package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// StatementService renders the vendor's wallet statement as a PDF.
type StatementService struct {
	Vendors   VendorGetter
	Wallets   WalletStore
	RequestID string
}

func (s StatementService) WalletStatement(ctx context.Context, vendorID int64, limit int) ([]byte, string, error) {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, "", err
	}
	wallet, err := s.Wallets.GetOrCreate(ctx, vendorID)
	if err != nil {
		return nil, "", err
	}
	transactions, err := s.Wallets.ListTransactions(ctx, vendorID, limit)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "statement", "wallet_pdf", fmt.Sprintf("vendor_id=%d entries=%d", vendorID, len(transactions)))
	return buildStatementPDF(vendor, wallet, transactions)
}

func buildStatementPDF(vendor models.Vendor, wallet models.Wallet, transactions []models.WalletTransaction) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Wallet Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "WALLET STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Vendor       : "+vendor.Name)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated    : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Balance      : "+utils.FormatRupee(wallet.Balance))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Total Credit : "+utils.FormatRupee(wallet.TotalCredited))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Total Debit  : "+utils.FormatRupee(wallet.TotalDebited))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Transactions:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	if len(transactions) == 0 {
		pdf.Cell(0, 6, "No transactions recorded.")
		pdf.Ln(6)
	}
	for _, wt := range transactions {
		sign := "+"
		if wt.Type == models.TransactionDebit {
			sign = "-"
		}
		line := fmt.Sprintf("%s  %s%s  %s", wt.TransactionDate, sign, utils.FormatMoney(wt.Amount), wt.Description)
		pdf.MultiCell(0, 5, line, "", "", false)
		pdf.Ln(1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Balance updates after a payment completes; pending gateway payments are not included.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("WALLET_STATEMENT_%d_%s.pdf", vendor.ID, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}
