package model

import "github.com/shopspring/decimal"

// MajorUnits converts an amount in minor units (cents) to major units.
func MajorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatMajor renders minor units as a fixed two-digit major amount, e.g. 1250 -> "12.50".
func FormatMajor(cents int64) string {
	return MajorUnits(cents).StringFixed(2)
}
