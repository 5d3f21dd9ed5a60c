package services

import (
	"context"
	"fmt"
	"time"

	"fleetbackend/internal/domain/models"
	"fleetbackend/internal/utils"

	"github.com/shopspring/decimal"
)

// TripSummer is satisfied by repositories.TripRepository.
type TripSummer interface {
	SumBySource(ctx context.Context, source models.TripSource, driverIDs []int64, windowStart, windowEnd time.Time) (map[int64]decimal.Decimal, error)
}

// PayoutService aggregates driver payouts across the four trip-completion
// sources. Pure read aggregation, no side effects.
type PayoutService struct {
	Trips     TripSummer
	RequestID string
}

type sourceResult struct {
	source models.TripSource
	sums   map[int64]decimal.Decimal
	err    error
}

// SumPayouts fans out one query per trip source, waits for all four, and
// merges. A failure in any source fails the whole aggregation; partial
// results are never returned. The per-driver map is zero-filled for every
// requested driver id.
func (s PayoutService) SumPayouts(ctx context.Context, driverIDs []int64, windowStart, windowEnd time.Time) (models.PayoutSummary, error) {
	ids := dedupeIDs(driverIDs)

	summary := models.PayoutSummary{
		PerDriver: make(map[int64]decimal.Decimal, len(ids)),
		Total:     decimal.Zero,
	}
	for _, id := range ids {
		summary.PerDriver[id] = decimal.Zero
	}
	if len(ids) == 0 {
		return summary, nil
	}

	results := make(chan sourceResult, len(models.AllTripSources))
	for _, source := range models.AllTripSources {
		go func(src models.TripSource) {
			sums, err := s.Trips.SumBySource(ctx, src, ids, windowStart, windowEnd)
			results <- sourceResult{source: src, sums: sums, err: err}
		}(source)
	}

	var firstErr error
	for range models.AllTripSources {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("payout source %s: %w", res.source, res.err)
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		for driverID, sum := range res.sums {
			summary.PerDriver[driverID] = summary.PerDriver[driverID].Add(sum)
			summary.Total = summary.Total.Add(sum)
		}
	}
	if firstErr != nil {
		utils.LogEvent(s.RequestID, "payout", "sum", "aborted: "+firstErr.Error())
		return models.PayoutSummary{}, firstErr
	}
	return summary, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
