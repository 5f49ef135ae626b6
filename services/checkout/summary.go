package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/models"
	"checkout-pricing-api/pricing"
)

// SummaryRequest is the selection shown in the purchase summary.
type SummaryRequest struct {
	PlanType      models.PlanType
	PlanID        int
	DiscountID    int
	MonthPlan     int
	Promocode     string
	PaymentMethod models.PaymentMethodType
	Locale        pricing.Locale
}

// Service assembles purchase summaries from the upstream APIs.
type Service struct {
	plans      PlanDataProvider
	discounts  DiscountProvider
	amounts    AmountDetailsProvider
	promocodes PromocodeValidator
	payments   PaymentMethodProvider
	cache      PlanCache
}

type Option func(*Service)

// WithPlanCache enables plan data caching.
func WithPlanCache(cache PlanCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func NewService(plans PlanDataProvider, discounts DiscountProvider, amounts AmountDetailsProvider,
	promocodes PromocodeValidator, payments PaymentMethodProvider, opts ...Option) *Service {
	s := &Service{
		plans:      plans,
		discounts:  discounts,
		amounts:    amounts,
		promocodes: promocodes,
		payments:   payments,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type pricingSelection struct {
	paymentMethod models.PaymentMethodType
	discount      *models.Discount
	details       models.AmountDetails
}

// Summary fetches everything the summary needs and runs the price breakdown. The plan
// and the promocode are fetched while the payment method, discount and amount details
// chain runs.
func (s *Service) Summary(ctx context.Context, req SummaryRequest) (models.CheckoutSummary, error) {
	var (
		plan      models.MarketingPlan
		promotion *models.PromocodeApplied
		selection pricingSelection
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		selection, err = s.selectPricing(gctx, req)
		return err
	})
	g.Go(func() error {
		var err error
		plan, err = s.Plan(gctx, req.PlanID)
		return err
	})
	if req.Promocode != "" {
		g.Go(func() error {
			applied, err := s.promocodes.ValidatePromocode(gctx, req.PlanID, req.Promocode)
			if err != nil {
				logger.Log.Info("promocode not applied",
					zap.Int("plan_id", req.PlanID),
					zap.String("promocode", req.Promocode),
					zap.Error(err),
				)
				return nil
			}
			promotion = &applied
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.CheckoutSummary{}, err
	}

	planType := req.PlanType
	if !planType.IsValid() {
		planType = plan.Type
	}

	var frequency *models.PaymentFrequency
	if selection.discount != nil {
		frequency = selection.discount.Frequency()
	}

	return pricing.Summarize(pricing.SummaryInput{
		Input: pricing.Input{
			Plan:          plan,
			PlanType:      planType,
			Frequency:     frequency,
			AmountDetails: selection.details,
			Promocode:     promotion,
			Locale:        req.Locale,
		},
		PaymentMethod: selection.paymentMethod,
		Discount:      selection.discount,
	}), nil
}

func (s *Service) selectPricing(ctx context.Context, req SummaryRequest) (pricingSelection, error) {
	method := s.PaymentMethod(ctx, req.PaymentMethod)

	var discount *models.Discount
	discounts, err := s.discounts.GetDiscountsData(ctx, req.PlanID, method)
	if err != nil {
		logger.Log.Warn("discounts unavailable", zap.Int("plan_id", req.PlanID), zap.Error(err))
	} else {
		discount = SelectDiscount(discounts, req.MonthPlan, req.DiscountID)
	}

	discountID := 0
	if discount != nil {
		discountID = discount.ID
	}

	details, err := s.amounts.GetPlanAmountDetailsData(ctx, req.PlanID, discountID, req.Promocode)
	if err != nil {
		return pricingSelection{}, fmt.Errorf("amount details: %w", err)
	}

	return pricingSelection{paymentMethod: method, discount: discount, details: details}, nil
}

// PaymentMethod resolves the method to price with: the explicit one, else the one stored
// for the account, else credit card.
func (s *Service) PaymentMethod(ctx context.Context, explicit models.PaymentMethodType) models.PaymentMethodType {
	if explicit != "" {
		return explicit
	}
	method, err := s.payments.GetPaymentMethod(ctx)
	if err != nil {
		logger.Log.Warn("payment method unavailable, using credit card", zap.Error(err))
		return models.PaymentMethodCreditCard
	}
	if method == "" || method == models.PaymentMethodNone {
		return models.PaymentMethodCreditCard
	}
	return method
}

// SelectDiscount picks the discount matching monthPlan, then discountID, then the first.
func SelectDiscount(discounts []models.Discount, monthPlan, discountID int) *models.Discount {
	if len(discounts) == 0 {
		return nil
	}
	if monthPlan > 0 {
		for i := range discounts {
			if discounts[i].MonthsAmount == monthPlan {
				return &discounts[i]
			}
		}
	}
	if discountID > 0 {
		for i := range discounts {
			if discounts[i].ID == discountID {
				return &discounts[i]
			}
		}
	}
	return &discounts[0]
}

// Plan returns the plan data, from the cache when one is configured.
func (s *Service) Plan(ctx context.Context, planID int) (models.MarketingPlan, error) {
	if s.cache != nil {
		plan, ok, err := s.cache.GetPlan(ctx, planID)
		if err != nil {
			logger.Log.Warn("plan cache read failed", zap.Int("plan_id", planID), zap.Error(err))
		} else if ok {
			return plan, nil
		}
	}

	plan, err := s.plans.GetPlanData(ctx, planID)
	if err != nil {
		return models.MarketingPlan{}, fmt.Errorf("plan data: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetPlan(ctx, plan); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Warn("plan cache write failed", zap.Int("plan_id", planID), zap.Error(err))
		}
	}
	return plan, nil
}

// ValidatePromocode checks a promocode for the plan.
func (s *Service) ValidatePromocode(ctx context.Context, planID int, promocode string) (models.PromocodeApplied, error) {
	return s.promocodes.ValidatePromocode(ctx, planID, promocode)
}
