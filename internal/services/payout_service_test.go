package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetbackend/internal/domain/models"

	"github.com/shopspring/decimal"
)

type fakeTripSummer struct {
	sums map[models.TripSource]map[int64]decimal.Decimal
	errs map[models.TripSource]error
}

func (f fakeTripSummer) SumBySource(_ context.Context, source models.TripSource, _ []int64, _, _ time.Time) (map[int64]decimal.Decimal, error) {
	if err := f.errs[source]; err != nil {
		return nil, err
	}
	if sums, ok := f.sums[source]; ok {
		return sums, nil
	}
	return map[int64]decimal.Decimal{}, nil
}

func TestSumPayoutsMergesAllSourcesAndZeroFills(t *testing.T) {
	svc := PayoutService{Trips: fakeTripSummer{
		sums: map[models.TripSource]map[int64]decimal.Decimal{
			models.TripStandard: {11: decimal.RequireFromString("100.00")},
			models.TripRental:   {11: decimal.RequireFromString("50.00"), 12: decimal.RequireFromString("75.00")},
			models.TripAirport:  {12: decimal.RequireFromString("25.00")},
		},
	}}

	summary, err := svc.SumPayouts(context.Background(), []int64{11, 12, 13, 11}, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := summary.PerDriver[11].StringFixed(2); got != "150.00" {
		t.Fatalf("driver 11 total: got %s", got)
	}
	if got := summary.PerDriver[12].StringFixed(2); got != "100.00" {
		t.Fatalf("driver 12 total: got %s", got)
	}
	if got, ok := summary.PerDriver[13]; !ok || !got.IsZero() {
		t.Fatalf("driver 13 should be zero-filled, got %v present=%v", got, ok)
	}
	if got := summary.Total.StringFixed(2); got != "250.00" {
		t.Fatalf("grand total: got %s", got)
	}
}

func TestSumPayoutsFailsWholeAggregationOnAnySourceError(t *testing.T) {
	boom := errors.New("table scan failed")
	svc := PayoutService{Trips: fakeTripSummer{
		sums: map[models.TripSource]map[int64]decimal.Decimal{
			models.TripStandard: {11: decimal.RequireFromString("100.00")},
		},
		errs: map[models.TripSource]error{models.TripOutstation: boom},
	}}

	_, err := svc.SumPayouts(context.Background(), []int64{11}, time.Now(), time.Now())
	if err == nil {
		t.Fatalf("expected error when one source fails")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("source error not wrapped: %v", err)
	}
}

func TestSumPayoutsNoDriversSkipsQueries(t *testing.T) {
	svc := PayoutService{Trips: fakeTripSummer{
		errs: map[models.TripSource]error{models.TripStandard: errors.New("should not be called")},
	}}

	summary, err := svc.SumPayouts(context.Background(), nil, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(summary.PerDriver) != 0 || !summary.Total.IsZero() {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}
