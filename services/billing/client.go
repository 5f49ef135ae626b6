package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"checkout-pricing-api/models"
	"checkout-pricing-api/services/auth"
	"checkout-pricing-api/services/upstream"
)

var ErrNoAccount = errors.New("no authenticated account")

// Client talks to the billing user API of the authenticated account.
type Client struct {
	api *upstream.Client
}

func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

func accountPath(ctx context.Context, suffix string) (string, error) {
	user := auth.FromContext(ctx)
	if user == nil || user.Email == "" {
		return "", ErrNoAccount
	}
	return "/accounts/" + url.PathEscape(user.Email) + suffix, nil
}

// Purchase buys the plan. A rejected payment comes back as an *upstream.Error whose Code
// is the payment processor error code.
func (c *Client) Purchase(ctx context.Context, req models.PurchaseRequest) error {
	path, err := accountPath(ctx, "/purchase")
	if err != nil {
		return err
	}
	if err := c.api.Post(ctx, path, req, nil); err != nil {
		return fmt.Errorf("purchase plan %d: %w", req.PlanID, err)
	}
	return nil
}

type paymentMethodResponse struct {
	PaymentMethodName models.PaymentMethodType `json:"paymentMethodName"`
}

// GetPaymentMethod returns the payment method stored for the account. NONE means the
// account has not set one yet.
func (c *Client) GetPaymentMethod(ctx context.Context) (models.PaymentMethodType, error) {
	path, err := accountPath(ctx, "/payment-methods/current")
	if err != nil {
		return "", err
	}

	var resp paymentMethodResponse
	if err := c.api.Get(ctx, path, nil, &resp); err != nil {
		return "", fmt.Errorf("get payment method: %w", err)
	}
	if resp.PaymentMethodName == "" {
		return models.PaymentMethodNone, nil
	}
	return resp.PaymentMethodName, nil
}
