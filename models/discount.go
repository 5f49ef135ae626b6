package models

import "github.com/shopspring/decimal"

// Discount is a prepayment option offered for a plan and payment method.
type Discount struct {
	ID                 int             `json:"id"`
	Description        string          `json:"description"`
	MonthsAmount       int             `json:"monthsAmmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	ApplyPromo         bool            `json:"applyPromo"`
}

// Frequency returns the payment frequency the discount represents.
func (d Discount) Frequency() *PaymentFrequency {
	if d.MonthsAmount <= 0 {
		return nil
	}
	return &PaymentFrequency{NumberMonths: d.MonthsAmount}
}
