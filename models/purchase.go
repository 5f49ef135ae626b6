package models

import "github.com/shopspring/decimal"

type PaymentMethodType string

const (
	PaymentMethodCreditCard  PaymentMethodType = "CC"
	PaymentMethodTransfer    PaymentMethodType = "TRANSF"
	PaymentMethodMercadoPago PaymentMethodType = "MP"
	PaymentMethodNone        PaymentMethodType = "NONE"
)

// PurchaseRequest is what the billing API expects to buy a plan.
type PurchaseRequest struct {
	PlanID        int             `json:"planId"`
	DiscountID    int             `json:"discountId"`
	Total         decimal.Decimal `json:"total"`
	Promocode     string          `json:"promocode"`
	OriginInbound string          `json:"originInbound"`
}

type PurchaseStatus int

const (
	PurchaseStatusProcessing PurchaseStatus = 0
	PurchaseStatusFailed     PurchaseStatus = 1
	PurchaseStatusSuccess    PurchaseStatus = 3
)

func (ps PurchaseStatus) String() string {
	switch ps {
	case PurchaseStatusProcessing:
		return "processing"
	case PurchaseStatusFailed:
		return "failed"
	case PurchaseStatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// PurchaseAttempt is a row of the purchase ledger.
type PurchaseAttempt struct {
	ID            string          `json:"id"`
	AccountEmail  string          `json:"account_email"`
	PlanID        int             `json:"plan_id"`
	DiscountID    int             `json:"discount_id"`
	Total         decimal.Decimal `json:"total"`
	Promocode     string          `json:"promocode"`
	OriginInbound string          `json:"origin_inbound"`
	PaymentMethod string          `json:"payment_method"`
	Status        PurchaseStatus  `json:"status"`
	ErrorCode     string          `json:"error_code,omitempty"`
}
