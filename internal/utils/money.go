package utils

import "github.com/shopspring/decimal"

var minorPerMajor = decimal.NewFromInt(100)

// MinorToMajor converts a gateway amount in paise into rupees.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorPerMajor)
}

// MajorToMinor converts rupees into whole paise.
func MajorToMinor(major decimal.Decimal) int64 {
	return major.Mul(minorPerMajor).Round(0).IntPart()
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatRupee renders an amount with the currency marker for documents.
func FormatRupee(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-Rs " + amount.Neg().StringFixed(2)
	}
	return "Rs " + amount.StringFixed(2)
}
