package services

import (
	"context"
	"testing"
	"time"

	"fleetbackend/internal/domain"
	"fleetbackend/internal/domain/models"

	"github.com/shopspring/decimal"
)

type fakeCommissionGetter struct {
	credits map[string]decimal.Decimal
}

func (f fakeCommissionGetter) Get(_ context.Context, vendorID int64, creditDate string) (models.CommissionCredit, error) {
	amount, ok := f.credits[creditDate]
	if !ok {
		return models.CommissionCredit{}, domain.NotFoundError{Resource: "commission credit"}
	}
	return models.CommissionCredit{VendorID: vendorID, CreditDate: creditDate, Amount: amount}, nil
}

type fakeDriverIDLister struct {
	ids []int64
}

func (f fakeDriverIDLister) ListIDsByVendor(context.Context, int64) ([]int64, error) {
	return f.ids, nil
}

type fakePayoutSummarizer struct {
	total  decimal.Decimal
	called int
}

func (f *fakePayoutSummarizer) SumPayouts(_ context.Context, driverIDs []int64, _, _ time.Time) (models.PayoutSummary, error) {
	f.called++
	per := map[int64]decimal.Decimal{}
	for _, id := range driverIDs {
		per[id] = decimal.Zero
	}
	return models.PayoutSummary{PerDriver: per, Total: f.total}, nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return day
}

func TestComputeBalanceAllocatedMinusDeducted(t *testing.T) {
	payouts := &fakePayoutSummarizer{total: decimal.RequireFromString("1800.00")}
	svc := BalanceService{
		Commissions: fakeCommissionGetter{credits: map[string]decimal.Decimal{
			"2025-03-10": decimal.RequireFromString("2200.00"),
		}},
		Drivers: fakeDriverIDLister{ids: []int64{11, 12}},
		Payouts: payouts,
	}

	db, err := svc.ComputeBalance(context.Background(), 7, mustDate(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if db.Balance.StringFixed(2) != "400.00" {
		t.Fatalf("balance: got %s want 400.00", db.Balance)
	}
	if payouts.called != 1 {
		t.Fatalf("payout aggregation should run once, ran %d times", payouts.called)
	}
}

func TestComputeBalanceMissingCommissionMeansZeroAllocated(t *testing.T) {
	svc := BalanceService{
		Commissions: fakeCommissionGetter{},
		Drivers:     fakeDriverIDLister{ids: []int64{11}},
		Payouts:     &fakePayoutSummarizer{total: decimal.RequireFromString("500.00")},
	}

	db, err := svc.ComputeBalance(context.Background(), 7, mustDate(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !db.Allocated.IsZero() {
		t.Fatalf("allocated should be zero, got %s", db.Allocated)
	}
	if db.Balance.StringFixed(2) != "-500.00" {
		t.Fatalf("negative balance must be preserved, got %s", db.Balance)
	}
}

func TestComputeBalanceNoDriversSkipsPayouts(t *testing.T) {
	payouts := &fakePayoutSummarizer{total: decimal.RequireFromString("999.00")}
	svc := BalanceService{
		Commissions: fakeCommissionGetter{credits: map[string]decimal.Decimal{
			"2025-03-10": decimal.RequireFromString("100.00"),
		}},
		Drivers: fakeDriverIDLister{},
		Payouts: payouts,
	}

	db, err := svc.ComputeBalance(context.Background(), 7, mustDate(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payouts.called != 0 {
		t.Fatalf("payout aggregation should not run without drivers")
	}
	if db.Balance.StringFixed(2) != "100.00" {
		t.Fatalf("balance: got %s want 100.00", db.Balance)
	}
}

func TestBalanceSeriesInclusiveRangeNoCarryForward(t *testing.T) {
	svc := BalanceService{
		Commissions: fakeCommissionGetter{credits: map[string]decimal.Decimal{
			"2025-03-10": decimal.RequireFromString("100.00"),
		}},
		Drivers: fakeDriverIDLister{},
		Payouts: &fakePayoutSummarizer{},
	}

	series, err := svc.BalanceSeries(context.Background(), 7, mustDate(t, "2025-03-09"), mustDate(t, "2025-03-11"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 days, got %d", len(series))
	}
	if !series[0].Balance.IsZero() || !series[2].Balance.IsZero() {
		t.Fatalf("days without allocation must stand alone: %+v", series)
	}
	if series[1].Balance.StringFixed(2) != "100.00" {
		t.Fatalf("middle day balance: got %s", series[1].Balance)
	}
}

func TestBalanceSeriesRejectsReversedRange(t *testing.T) {
	svc := BalanceService{Commissions: fakeCommissionGetter{}, Drivers: fakeDriverIDLister{}, Payouts: &fakePayoutSummarizer{}}
	_, err := svc.BalanceSeries(context.Background(), 7, mustDate(t, "2025-03-11"), mustDate(t, "2025-03-10"))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBalanceSeriesRejectsOversizedRange(t *testing.T) {
	svc := BalanceService{Commissions: fakeCommissionGetter{}, Drivers: fakeDriverIDLister{}, Payouts: &fakePayoutSummarizer{}}
	start := mustDate(t, "2025-01-01")
	_, err := svc.BalanceSeries(context.Background(), 7, start, start.AddDate(0, 0, 200))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
