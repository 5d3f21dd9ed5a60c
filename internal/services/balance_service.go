package services

import (
	"context"
	"time"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/utils"

	"github.com/shopspring/decimal"
)

// CommissionGetter is satisfied by repositories.CommissionRepository.
type CommissionGetter interface {
	Get(ctx context.Context, vendorID int64, creditDate string) (models.CommissionCredit, error)
}

// DriverIDLister is satisfied by repositories.DriverRepository.
type DriverIDLister interface {
	ListIDsByVendor(ctx context.Context, vendorID int64) ([]int64, error)
}

// PayoutSummarizer is satisfied by PayoutService.
type PayoutSummarizer interface {
	SumPayouts(ctx context.Context, driverIDs []int64, windowStart, windowEnd time.Time) (models.PayoutSummary, error)
}

// BalanceService computes the vendor's net position for a vendor-local day:
// admin-allocated commission credit minus driver payouts owed. The deducted
// side is always derived live from the trip tables; no stored allowance
// figure is trusted.
type BalanceService struct {
	Commissions CommissionGetter
	Drivers     DriverIDLister
	Payouts     PayoutSummarizer
	RequestID   string
}

const maxSeriesDays = 92

// ComputeBalance returns allocated/deducted/balance for one local date.
// Negative balance is a valid result.
func (s BalanceService) ComputeBalance(ctx context.Context, vendorID int64, localDate time.Time) (models.DailyBalance, error) {
	date := utils.FormatDate(localDate)

	allocated := decimal.Zero
	credit, err := s.Commissions.Get(ctx, vendorID, date)
	if err != nil {
		if !domain.IsNotFound(err) {
			return models.DailyBalance{}, err
		}
	} else {
		allocated = credit.Amount
	}

	driverIDs, err := s.Drivers.ListIDsByVendor(ctx, vendorID)
	if err != nil {
		return models.DailyBalance{}, err
	}

	deducted := decimal.Zero
	if len(driverIDs) > 0 {
		windowStart, windowEnd := utils.DayWindowUTC(localDate)
		summary, err := s.Payouts.SumPayouts(ctx, driverIDs, windowStart, windowEnd)
		if err != nil {
			return models.DailyBalance{}, err
		}
		deducted = summary.Total
	}

	return models.DailyBalance{
		Date:      date,
		Allocated: allocated,
		Deducted:  deducted,
		Balance:   allocated.Sub(deducted),
	}, nil
}

// BalanceSeries repeats the per-day computation over an inclusive local date
// range. Days are independent; there is no carry-forward.
func (s BalanceService) BalanceSeries(ctx context.Context, vendorID int64, start, end time.Time) ([]models.DailyBalance, error) {
	if end.Before(start) {
		return nil, domain.ValidationError{Field: "end", Msg: "must not be before start"}
	}

	series := []models.DailyBalance{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if len(series) >= maxSeriesDays {
			return nil, domain.ValidationError{Field: "range", Msg: "window too large"}
		}
		db, err := s.ComputeBalance(ctx, vendorID, day)
		if err != nil {
			return nil, err
		}
		series = append(series, db)
	}
	return series, nil
}
