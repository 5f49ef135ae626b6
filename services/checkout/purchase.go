package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/models"
	"checkout-pricing-api/pricing"
	"checkout-pricing-api/purchase"
	"checkout-pricing-api/queue"
	"checkout-pricing-api/services/upstream"
)

var (
	ErrPurchaseInProgress = errors.New("a purchase is already in progress for this account")
	ErrNoAccount          = errors.New("no authenticated account")
)

type PurchaseLedger interface {
	RecordAttempt(ctx context.Context, attempt models.PurchaseAttempt) error
	UpdateStatus(ctx context.Context, id string, status models.PurchaseStatus, errorCode string) error
}

type PurchaseLocker interface {
	LockPurchase(ctx context.Context, accountEmail string) (bool, error)
	ReleasePurchaseLock(ctx context.Context, accountEmail string) error
}

type JobQueue interface {
	Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error
}

// PurchaseInput is a buy request plus what the summary page needs afterwards.
type PurchaseInput struct {
	AccountEmail  string
	Request       models.PurchaseRequest
	PaymentMethod models.PaymentMethodType
	Discount      *models.Discount
	Promotion     *models.PromocodeApplied
	Locale        pricing.Locale
}

type PurchaseResult struct {
	AttemptID   string `json:"attemptId"`
	RedirectURL string `json:"redirectUrl"`
}

// PurchaseError is a purchase the billing API rejected. MessageKey is what the UI shows.
type PurchaseError struct {
	Code       string
	MessageKey string
	Err        error
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase rejected (%s): %v", e.Code, e.Err)
}

func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// Purchaser runs a purchase: one at a time per account, recorded in the ledger.
type Purchaser struct {
	executor PurchaseExecutor
	ledger   PurchaseLedger
	locker   PurchaseLocker
	jobs     JobQueue
}

func NewPurchaser(executor PurchaseExecutor, ledger PurchaseLedger, locker PurchaseLocker, jobs JobQueue) *Purchaser {
	return &Purchaser{
		executor: executor,
		ledger:   ledger,
		locker:   locker,
		jobs:     jobs,
	}
}

func (p *Purchaser) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if in.AccountEmail == "" {
		return PurchaseResult{}, ErrNoAccount
	}

	locked, err := p.locker.LockPurchase(ctx, in.AccountEmail)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("lock purchase: %w", err)
	}
	if !locked {
		return PurchaseResult{}, ErrPurchaseInProgress
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.locker.ReleasePurchaseLock(releaseCtx, in.AccountEmail); err != nil {
			logger.Log.Error("failed to release purchase lock", zap.String("account", in.AccountEmail), zap.Error(err))
		}
	}()

	attempt := models.PurchaseAttempt{
		ID:            uuid.NewString(),
		AccountEmail:  in.AccountEmail,
		PlanID:        in.Request.PlanID,
		DiscountID:    in.Request.DiscountID,
		Total:         in.Request.Total,
		Promocode:     in.Request.Promocode,
		OriginInbound: in.Request.OriginInbound,
		PaymentMethod: string(in.PaymentMethod),
		Status:        models.PurchaseStatusProcessing,
	}
	if err := p.ledger.RecordAttempt(ctx, attempt); err != nil {
		return PurchaseResult{}, fmt.Errorf("record purchase attempt: %w", err)
	}

	log := logger.Log.With(zap.String("attempt_id", attempt.ID), zap.Int("plan_id", attempt.PlanID))

	if err := p.executor.Purchase(ctx, in.Request); err != nil {
		code := upstream.ErrorCode(err)
		if updateErr := p.ledger.UpdateStatus(ctx, attempt.ID, models.PurchaseStatusFailed, code); updateErr != nil {
			log.Error("failed to update purchase attempt", zap.Error(updateErr))
		}
		log.Warn("purchase rejected", zap.String("error_code", code), zap.Error(err))
		return PurchaseResult{}, &PurchaseError{
			Code:       code,
			MessageKey: purchase.ErrorMessageKey(code),
			Err:        err,
		}
	}

	attempt.Status = models.PurchaseStatusSuccess
	if err := p.ledger.UpdateStatus(ctx, attempt.ID, models.PurchaseStatusSuccess, ""); err != nil {
		log.Error("failed to update purchase attempt", zap.Error(err))
	}

	if err := p.jobs.Enqueue(ctx, queue.JobTypePurchaseConfirmation, confirmationJobData(attempt, in)); err != nil {
		log.Error("failed to enqueue purchase confirmation", zap.Error(err))
	}

	log.Info("purchase completed", zap.String("payment_method", attempt.PaymentMethod))
	return PurchaseResult{
		AttemptID:   attempt.ID,
		RedirectURL: purchase.SummaryURL(in.Request.PlanID, in.PaymentMethod, in.Discount, in.Promotion),
	}, nil
}

func confirmationJobData(attempt models.PurchaseAttempt, in PurchaseInput) map[string]interface{} {
	data := map[string]interface{}{
		"attempt_id":     attempt.ID,
		"email":          attempt.AccountEmail,
		"plan_id":        attempt.PlanID,
		"total":          attempt.Total.StringFixed(2),
		"payment_method": attempt.PaymentMethod,
		"locale":         string(in.Locale),
	}
	if in.Discount != nil {
		data["discount"] = in.Discount.Description
	}
	if in.Promotion != nil && in.Promotion.ExtraCredits > 0 {
		data["extra_credits"] = in.Promotion.ExtraCredits
	}
	return data
}
