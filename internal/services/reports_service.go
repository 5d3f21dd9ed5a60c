package services

import (
	"context"
	"fmt"
	"time"

	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// BalanceSeriesProvider is satisfied by BalanceService.
type BalanceSeriesProvider interface {
	BalanceSeries(ctx context.Context, vendorID int64, start, end time.Time) ([]models.DailyBalance, error)
}

// ReportsService exports the daily reconciliation view as a workbook.
type ReportsService struct {
	Balances  BalanceSeriesProvider
	RequestID string
}

// EarningsWorkbook renders one row per day over the inclusive local date
// range, with allocated/deducted/balance columns and a totals row.
func (s ReportsService) EarningsWorkbook(ctx context.Context, vendorID int64, start, end time.Time) ([]byte, string, error) {
	series, err := s.Balances.BalanceSeries(ctx, vendorID, start, end)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"Date", "Commission Allocated", "Trip Payouts Deducted", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	totalAllocated, totalDeducted := decimal.Zero, decimal.Zero
	for row, db := range series {
		values := []any{db.Date, db.Allocated.InexactFloat64(), db.Deducted.InexactFloat64(), db.Balance.InexactFloat64()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
		totalAllocated = totalAllocated.Add(db.Allocated)
		totalDeducted = totalDeducted.Add(db.Deducted)
	}

	totalsRow := len(series) + 2
	totals := []any{"Total", totalAllocated.InexactFloat64(), totalDeducted.InexactFloat64(), totalAllocated.Sub(totalDeducted).InexactFloat64()}
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col+1, totalsRow)
		f.SetCellValue(sheet, cell, v)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write earnings workbook: %w", err)
	}

	utils.LogEvent(s.RequestID, "reports", "earnings_xlsx",
		fmt.Sprintf("vendor_id=%d days=%d", vendorID, len(series)))
	filename := fmt.Sprintf("EARNINGS_%d_%s_%s.xlsx", vendorID, utils.FormatDate(start), utils.FormatDate(end))
	return buf.Bytes(), filename, nil
}
