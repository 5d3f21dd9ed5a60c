package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fleetbackend/internal/domain/models"

	"github.com/shopspring/decimal"
)

// TripRepository reads the four trip-completion tables. The tables are
// written by the trip-execution system and are read-only here.
type TripRepository struct {
	DB *sql.DB
}

// SumBySource sums COALESCE(total_amount,0) per driver for one source table,
// filtered to completed_at within the half-open UTC window [start, end).
// Drivers without matching trips are simply absent from the result map.
func (r TripRepository) SumBySource(ctx context.Context, source models.TripSource, driverIDs []int64, windowStart, windowEnd time.Time) (map[int64]decimal.Decimal, error) {
	table, err := tripTable(source)
	if err != nil {
		return nil, err
	}

	sums := map[int64]decimal.Decimal{}
	if len(driverIDs) == 0 {
		return sums, nil
	}

	placeholders := make([]string, len(driverIDs))
	args := make([]any, 0, len(driverIDs)+2)
	for i, id := range driverIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, windowStart.UTC(), windowEnd.UTC())

	query := `
		SELECT driver_id, COALESCE(SUM(COALESCE(total_amount, 0)), 0)
		FROM ` + table + `
		WHERE driver_id IN (` + strings.Join(placeholders, ",") + `)
		  AND completed_at >= ? AND completed_at < ?
		GROUP BY driver_id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s sum query: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			driverID int64
			sum      decimal.Decimal
		)
		if err := rows.Scan(&driverID, &sum); err != nil {
			return nil, fmt.Errorf("%s sum scan: %w", table, err)
		}
		sums[driverID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s sum rows: %w", table, err)
	}
	return sums, nil
}

// tripTable whitelists source names before they are spliced into SQL.
func tripTable(source models.TripSource) (string, error) {
	switch source {
	case models.TripStandard, models.TripRental, models.TripOutstation, models.TripAirport:
		return string(source), nil
	default:
		return "", fmt.Errorf("unknown trip source %q", source)
	}
}
