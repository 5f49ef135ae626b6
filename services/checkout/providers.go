package checkout

import (
	"context"

	"checkout-pricing-api/models"
)

type PlanDataProvider interface {
	GetPlanData(ctx context.Context, planID int) (models.MarketingPlan, error)
}

type DiscountProvider interface {
	GetDiscountsData(ctx context.Context, planID int, paymentMethod models.PaymentMethodType) ([]models.Discount, error)
}

type AmountDetailsProvider interface {
	GetPlanAmountDetailsData(ctx context.Context, planID, discountID int, promocode string) (models.AmountDetails, error)
}

type PromocodeValidator interface {
	ValidatePromocode(ctx context.Context, planID int, promocode string) (models.PromocodeApplied, error)
}

type PurchaseExecutor interface {
	Purchase(ctx context.Context, req models.PurchaseRequest) error
}

type PaymentMethodProvider interface {
	GetPaymentMethod(ctx context.Context) (models.PaymentMethodType, error)
}

// PlanCache keeps plan data between requests. Amount details are never cached.
type PlanCache interface {
	GetPlan(ctx context.Context, planID int) (models.MarketingPlan, bool, error)
	SetPlan(ctx context.Context, plan models.MarketingPlan) error
}
