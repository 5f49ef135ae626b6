package checkout

import (
	"context"
	"errors"
	"sync"

	"checkout-pricing-api/models"
	"checkout-pricing-api/queue"
)

type fakeUpstream struct {
	mu sync.Mutex

	plan         models.MarketingPlan
	planErr      error
	planCalls    int
	discounts    []models.Discount
	discountsErr error
	discountsFor models.PaymentMethodType
	details      models.AmountDetails
	detailsErr   error
	detailsFor   [2]int
	promotion    models.PromocodeApplied
	promotionErr error
	method       models.PaymentMethodType
	methodErr    error
	purchaseErr  error
	purchases    []models.PurchaseRequest
}

func (f *fakeUpstream) GetPlanData(ctx context.Context, planID int) (models.MarketingPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planCalls++
	return f.plan, f.planErr
}

func (f *fakeUpstream) GetDiscountsData(ctx context.Context, planID int, method models.PaymentMethodType) ([]models.Discount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discountsFor = method
	return f.discounts, f.discountsErr
}

func (f *fakeUpstream) GetPlanAmountDetailsData(ctx context.Context, planID, discountID int, promocode string) (models.AmountDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsFor = [2]int{planID, discountID}
	return f.details, f.detailsErr
}

func (f *fakeUpstream) ValidatePromocode(ctx context.Context, planID int, promocode string) (models.PromocodeApplied, error) {
	if f.promotionErr != nil {
		return models.PromocodeApplied{}, f.promotionErr
	}
	p := f.promotion
	p.Promocode = promocode
	return p, nil
}

func (f *fakeUpstream) GetPaymentMethod(ctx context.Context) (models.PaymentMethodType, error) {
	return f.method, f.methodErr
}

func (f *fakeUpstream) Purchase(ctx context.Context, req models.PurchaseRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purchases = append(f.purchases, req)
	return f.purchaseErr
}

type fakePlanCache struct {
	plans map[int]models.MarketingPlan
	err   error
}

func (c *fakePlanCache) GetPlan(ctx context.Context, planID int) (models.MarketingPlan, bool, error) {
	if c.err != nil {
		return models.MarketingPlan{}, false, c.err
	}
	p, ok := c.plans[planID]
	return p, ok, nil
}

func (c *fakePlanCache) SetPlan(ctx context.Context, plan models.MarketingPlan) error {
	if c.plans == nil {
		c.plans = map[int]models.MarketingPlan{}
	}
	c.plans[plan.ID] = plan
	return nil
}

type fakeLedger struct {
	attempts map[string]models.PurchaseAttempt
	err      error
}

func (l *fakeLedger) RecordAttempt(ctx context.Context, attempt models.PurchaseAttempt) error {
	if l.err != nil {
		return l.err
	}
	if l.attempts == nil {
		l.attempts = map[string]models.PurchaseAttempt{}
	}
	l.attempts[attempt.ID] = attempt
	return nil
}

func (l *fakeLedger) UpdateStatus(ctx context.Context, id string, status models.PurchaseStatus, errorCode string) error {
	a, ok := l.attempts[id]
	if !ok {
		return errors.New("attempt not found")
	}
	a.Status = status
	a.ErrorCode = errorCode
	l.attempts[id] = a
	return nil
}

type fakeLocker struct {
	held     map[string]bool
	released []string
}

func (l *fakeLocker) LockPurchase(ctx context.Context, email string) (bool, error) {
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[email] {
		return false, nil
	}
	l.held[email] = true
	return true, nil
}

func (l *fakeLocker) ReleasePurchaseLock(ctx context.Context, email string) error {
	delete(l.held, email)
	l.released = append(l.released, email)
	return nil
}

type fakeQueue struct {
	jobs []map[string]interface{}
	err  error
}

func (q *fakeQueue) Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, data)
	return nil
}
