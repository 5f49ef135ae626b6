package pricing

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"checkout-pricing-api/models"
)

type rawAmountDetails struct {
	DiscountPrepayment         json.RawMessage `json:"discountPrepayment"`
	DiscountPromocode          json.RawMessage `json:"discountPromocode"`
	DiscountPlanFeeAdmin       json.RawMessage `json:"discountPlanFeeAdmin"`
	DiscountPaymentAlreadyPaid json.RawMessage `json:"discountPaymentAlreadyPaid"`
	Total                      json.RawMessage `json:"total"`
}

// ParseAmountDetails normalizes the amount details payload once at the boundary.
// Each section is decoded on its own: a missing, null or malformed section becomes
// absent instead of failing the whole payload.
func ParseAmountDetails(data []byte) models.AmountDetails {
	var raw rawAmountDetails
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.AmountDetails{}
	}

	return models.AmountDetails{
		DiscountPrepayment:         decodeSection[models.PrepaymentDiscount](raw.DiscountPrepayment),
		DiscountPromocode:          decodeSection[models.PromocodeDiscount](raw.DiscountPromocode),
		DiscountPlanFeeAdmin:       decodeSection[models.FeeAdminDiscount](raw.DiscountPlanFeeAdmin),
		DiscountPaymentAlreadyPaid: decodeAmount(raw.DiscountPaymentAlreadyPaid),
		Total:                      decodeAmount(raw.Total),
	}
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeSection[T any](raw json.RawMessage) *T {
	if isAbsent(raw) {
		return nil
	}
	var section T
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil
	}
	return &section
}

func decodeAmount(raw json.RawMessage) decimal.Decimal {
	if isAbsent(raw) {
		return decimal.Zero
	}
	var amount decimal.Decimal
	if err := json.Unmarshal(raw, &amount); err != nil {
		return decimal.Zero
	}
	return amount
}
