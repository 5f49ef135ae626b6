package models

import "github.com/shopspring/decimal"

type PrepaymentDiscount struct {
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Amount             decimal.Decimal `json:"amount"`
	MonthsToPay        int             `json:"monthsToPay"`
}

type PromocodeDiscount struct {
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Amount             decimal.Decimal `json:"amount"`
	Duration           int             `json:"duration"`
}

type FeeAdminDiscount struct {
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Amount             decimal.Decimal `json:"amount"`
}

// AmountDetails is the server computed price of a plan selection. Every section is
// optional; nil means the upstream did not send it or sent something unreadable.
// Total is authoritative and is never recomputed locally.
type AmountDetails struct {
	DiscountPrepayment         *PrepaymentDiscount `json:"discountPrepayment,omitempty"`
	DiscountPromocode          *PromocodeDiscount  `json:"discountPromocode,omitempty"`
	DiscountPlanFeeAdmin       *FeeAdminDiscount   `json:"discountPlanFeeAdmin,omitempty"`
	DiscountPaymentAlreadyPaid decimal.Decimal     `json:"discountPaymentAlreadyPaid"`
	Total                      decimal.Decimal     `json:"total"`
}
