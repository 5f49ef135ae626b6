package accountplans

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"checkout-pricing-api/models"
	"checkout-pricing-api/pricing"
	"checkout-pricing-api/services/auth"
	"checkout-pricing-api/services/upstream"
)

var (
	ErrInvalidPromocode = errors.New("invalid promocode")
	ErrNoAccount        = errors.New("no authenticated account")
)

// Client talks to the account plans API: plans, prepayment discounts, amount details and
// promocode validation.
type Client struct {
	api *upstream.Client
}

func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

func (c *Client) GetPlanData(ctx context.Context, planID int) (models.MarketingPlan, error) {
	var plan models.MarketingPlan
	if err := c.api.Get(ctx, "/plans/"+strconv.Itoa(planID), nil, &plan); err != nil {
		return models.MarketingPlan{}, fmt.Errorf("get plan %d: %w", planID, err)
	}
	return plan, nil
}

func (c *Client) GetDiscountsData(ctx context.Context, planID int, paymentMethod models.PaymentMethodType) ([]models.Discount, error) {
	path := fmt.Sprintf("/plans/%d/%s/discounts", planID, url.PathEscape(string(paymentMethod)))

	var discounts []models.Discount
	if err := c.api.Get(ctx, path, nil, &discounts); err != nil {
		return nil, fmt.Errorf("get discounts of plan %d: %w", planID, err)
	}
	return discounts, nil
}

// GetPlanAmountDetailsData asks the upstream to price the selection for the current
// account. The payload is normalized by pricing.ParseAmountDetails.
func (c *Client) GetPlanAmountDetailsData(ctx context.Context, planID, discountID int, promocode string) (models.AmountDetails, error) {
	user := auth.FromContext(ctx)
	if user == nil {
		return models.AmountDetails{}, ErrNoAccount
	}

	path := fmt.Sprintf("/accounts/%s/newplan/%d/calculate", url.PathEscape(user.Email), planID)
	query := url.Values{
		"discountId": {strconv.Itoa(discountID)},
		"promocode":  {promocode},
	}
	body, err := c.api.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return models.AmountDetails{}, fmt.Errorf("get amount details of plan %d: %w", planID, err)
	}
	return pricing.ParseAmountDetails(body), nil
}

type promocodeResponse struct {
	ExtraCredits       int             `json:"extraCredits"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Duration           int             `json:"duration"`
	PlanType           models.PlanType `json:"planType"`
}

// ValidatePromocode checks the code against the plan. A rejected code is
// ErrInvalidPromocode; anything else is an upstream failure.
func (c *Client) ValidatePromocode(ctx context.Context, planID int, promocode string) (models.PromocodeApplied, error) {
	promocode = strings.TrimSpace(promocode)
	if promocode == "" {
		return models.PromocodeApplied{}, ErrInvalidPromocode
	}

	path := fmt.Sprintf("/plans/%d/validate/%s", planID, url.PathEscape(promocode))

	var resp promocodeResponse
	if err := c.api.Get(ctx, path, nil, &resp); err != nil {
		if upstreamErr, ok := upstream.AsError(err); ok && upstreamErr.IsClientError() {
			return models.PromocodeApplied{}, fmt.Errorf("%w: %s", ErrInvalidPromocode, promocode)
		}
		return models.PromocodeApplied{}, fmt.Errorf("validate promocode of plan %d: %w", planID, err)
	}

	return models.PromocodeApplied{
		Promocode:    promocode,
		PlanType:     resp.PlanType,
		ExtraCredits: resp.ExtraCredits,
		Duration:     resp.Duration,
	}, nil
}
