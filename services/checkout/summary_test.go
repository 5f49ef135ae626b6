package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout-pricing-api/models"
	"checkout-pricing-api/pricing"
)

func testUpstream() *fakeUpstream {
	return &fakeUpstream{
		plan: models.MarketingPlan{ID: 7, Type: models.PlanTypeByContact, Fee: decimal.NewFromInt(100), SubscribersQty: 2500},
		discounts: []models.Discount{
			{ID: 1, Description: "Monthly", MonthsAmount: 1, ApplyPromo: true},
			{ID: 2, Description: "Quarterly", MonthsAmount: 3, DiscountPercentage: decimal.NewFromInt(5)},
		},
		details: models.AmountDetails{
			DiscountPrepayment: &models.PrepaymentDiscount{DiscountPercentage: decimal.NewFromInt(5), Amount: decimal.NewFromInt(15), MonthsToPay: 3},
			Total:              decimal.NewFromInt(285),
		},
		method: models.PaymentMethodNone,
	}
}

func newTestService(up *fakeUpstream, opts ...Option) *Service {
	return NewService(up, up, up, up, up, opts...)
}

func TestSummary(t *testing.T) {
	up := testUpstream()
	svc := newTestService(up)

	summary, err := svc.Summary(context.Background(), SummaryRequest{
		PlanType:  models.PlanTypeByContact,
		PlanID:    7,
		MonthPlan: 3,
		Locale:    pricing.LocaleEN,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentMethodCreditCard, summary.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCreditCard, up.discountsFor)
	assert.Equal(t, [2]int{7, 2}, up.detailsFor)
	require.NotNil(t, summary.Discount)
	assert.Equal(t, 2, summary.Discount.ID)
	assert.Equal(t, "US$ 285.00", summary.Total)
	assert.Equal(t, "Your next billing will be US$ 285.00", summary.NextBilling)
	assert.Nil(t, summary.Promotion)

	require.Len(t, summary.Plan.BillingList, 2)
	assert.Equal(t, models.LineItem{Label: "Difference to pay for: 3 months", Amount: "US$ 300.00"}, summary.Plan.BillingList[0])
	assert.Equal(t, models.LineItem{Label: "Save 5%", Amount: "-US$ 15.00"}, summary.Plan.BillingList[1])
}

func TestSummaryWithPromocode(t *testing.T) {
	up := testUpstream()
	up.promotion = models.PromocodeApplied{PlanType: models.PlanTypeByContact, Duration: 6}
	up.details.DiscountPromocode = &models.PromocodeDiscount{DiscountPercentage: decimal.NewFromInt(20), Amount: decimal.NewFromInt(50), Duration: 3}

	summary, err := newTestService(up).Summary(context.Background(), SummaryRequest{
		PlanID:        7,
		Promocode:     "SAVE20",
		PaymentMethod: models.PaymentMethodTransfer,
		Locale:        pricing.LocaleEN,
	})
	require.NoError(t, err)

	require.NotNil(t, summary.Promotion)
	assert.Equal(t, "SAVE20", summary.Promotion.Promocode)
	assert.Equal(t, models.PaymentMethodTransfer, up.discountsFor)
	assert.Equal(t, models.PlanTypeByContact, summary.PlanType)

	last := summary.Plan.FeatureList[len(summary.Plan.FeatureList)-1]
	assert.Equal(t, "Promocode discount for 6 months", last.Text)
	assert.True(t, last.Removable)
}

func TestSummaryInvalidPromocodeIsNotFatal(t *testing.T) {
	up := testUpstream()
	up.promotionErr = errors.New("invalid promocode")

	summary, err := newTestService(up).Summary(context.Background(), SummaryRequest{PlanID: 7, Promocode: "NOPE"})
	require.NoError(t, err)
	assert.Nil(t, summary.Promotion)
}

func TestSummaryUpstreamFailures(t *testing.T) {
	t.Run("amount details", func(t *testing.T) {
		up := testUpstream()
		up.detailsErr = errors.New("boom")

		_, err := newTestService(up).Summary(context.Background(), SummaryRequest{PlanID: 7})
		assert.ErrorIs(t, err, up.detailsErr)
	})

	t.Run("plan data", func(t *testing.T) {
		up := testUpstream()
		up.planErr = errors.New("boom")

		_, err := newTestService(up).Summary(context.Background(), SummaryRequest{PlanID: 7})
		assert.ErrorIs(t, err, up.planErr)
	})

	t.Run("discounts are optional", func(t *testing.T) {
		up := testUpstream()
		up.discountsErr = errors.New("boom")

		summary, err := newTestService(up).Summary(context.Background(), SummaryRequest{PlanID: 7, MonthPlan: 3})
		require.NoError(t, err)
		assert.Nil(t, summary.Discount)
		assert.Equal(t, [2]int{7, 0}, up.detailsFor)
		assert.True(t, summary.AllowPromocode)
	})
}

func TestPaymentMethod(t *testing.T) {
	up := testUpstream()
	svc := newTestService(up)
	ctx := context.Background()

	assert.Equal(t, models.PaymentMethodMercadoPago, svc.PaymentMethod(ctx, models.PaymentMethodMercadoPago))

	up.method = models.PaymentMethodTransfer
	assert.Equal(t, models.PaymentMethodTransfer, svc.PaymentMethod(ctx, ""))

	up.method = models.PaymentMethodNone
	assert.Equal(t, models.PaymentMethodCreditCard, svc.PaymentMethod(ctx, ""))

	up.methodErr = errors.New("boom")
	assert.Equal(t, models.PaymentMethodCreditCard, svc.PaymentMethod(ctx, ""))
}

func TestSelectDiscount(t *testing.T) {
	discounts := []models.Discount{
		{ID: 1, MonthsAmount: 1},
		{ID: 2, MonthsAmount: 3},
		{ID: 3, MonthsAmount: 12},
	}

	assert.Nil(t, SelectDiscount(nil, 3, 0))
	assert.Equal(t, 3, SelectDiscount(discounts, 12, 2).ID)
	assert.Equal(t, 2, SelectDiscount(discounts, 6, 2).ID)
	assert.Equal(t, 1, SelectDiscount(discounts, 0, 0).ID)
	assert.Equal(t, 1, SelectDiscount(discounts, 6, 99).ID)
}

func TestPlanUsesCache(t *testing.T) {
	up := testUpstream()
	cache := &fakePlanCache{}
	svc := newTestService(up, WithPlanCache(cache))
	ctx := context.Background()

	_, err := svc.Plan(ctx, 7)
	require.NoError(t, err)
	_, err = svc.Plan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, up.planCalls)

	cache.err = errors.New("redis down")
	_, err = svc.Plan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, up.planCalls)
}
