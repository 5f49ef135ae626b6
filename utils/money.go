package utils

import "github.com/shopspring/decimal"

// RoundMoney rounds an amount to cents, half away from zero.
func RoundMoney(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// ParseMoney reads a decimal amount from a form or query value. Empty input is zero.
func ParseMoney(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(d), nil
}
