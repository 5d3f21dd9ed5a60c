package models

import "github.com/shopspring/decimal"

// TripSource names one of the four independently maintained trip-completion
// tables. A finished trip lives in exactly one source table.
type TripSource string

const (
	TripStandard   TripSource = "trips"
	TripRental     TripSource = "rental_trips"
	TripOutstation TripSource = "outstation_trips"
	TripAirport    TripSource = "airport_trips"
)

// AllTripSources in a fixed order, used by the payout fan-out.
var AllTripSources = []TripSource{TripStandard, TripRental, TripOutstation, TripAirport}

// PayoutSummary is the result of summing driver payouts over a window.
// PerDriver is zero-filled: every requested driver id has an entry even when
// no trips matched.
type PayoutSummary struct {
	PerDriver map[int64]decimal.Decimal `json:"per_driver"`
	Total     decimal.Decimal           `json:"total"`
}

// DailyBalance is one day of the vendor reconciliation view.
// Balance may be negative; that is a displayable state, not an error.
type DailyBalance struct {
	Date      string          `json:"date"`
	Allocated decimal.Decimal `json:"allocated"`
	Deducted  decimal.Decimal `json:"deducted"`
	Balance   decimal.Decimal `json:"balance"`
}
