package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"checkout-pricing-api/models"
)

func TestBuyURL(t *testing.T) {
	tests := []struct {
		name     string
		params   BuyURLParams
		expected string
	}{
		{
			name: "new checkout strips derived params",
			params: BuyURLParams{
				PlanType:           models.PlanTypeByContact,
				PlanID:             7,
				NewCheckoutEnabled: true,
				Search:             "?foo=bar&selected-plan=5&discountId=2",
			},
			expected: "/checkout/premium/byContact?selected-plan=7&foo=bar",
		},
		{
			name: "new checkout with discount and month plan",
			params: BuyURLParams{
				PlanType:           models.PlanTypeByEmail,
				PlanID:             3,
				DiscountID:         4,
				MonthPlan:          6,
				NewCheckoutEnabled: true,
				Search:             "?monthPlan=1&origin_inbound=site&selected-plan=9",
			},
			expected: "/checkout/premium/byEmail?selected-plan=3&discountId=4&monthPlan=6&origin_inbound=site",
		},
		{
			name: "new checkout without search",
			params: BuyURLParams{
				PlanType:           models.PlanTypeByCredit,
				PlanID:             12,
				NewCheckoutEnabled: true,
			},
			expected: "/checkout/premium/byCredit?selected-plan=12",
		},
		{
			name: "legacy checkout",
			params: BuyURLParams{
				ControlPanelURL: "https://app.example.com",
				PlanType:        models.PlanTypeByContact,
				PlanID:          7,
				DiscountID:      2,
				MonthPlan:       3,
				Search:          "?discountId=1&utm_source=mail",
			},
			expected: "https://app.example.com/AccountPreferences/UpgradeAccountStep2?IdUserTypePlan=7&fromStep1=True&IdDiscountPlan=2&utm_source=mail",
		},
		{
			name: "legacy checkout without discount",
			params: BuyURLParams{
				ControlPanelURL: "https://app.example.com",
				PlanID:          7,
			},
			expected: "https://app.example.com/AccountPreferences/UpgradeAccountStep2?IdUserTypePlan=7&fromStep1=True",
		},
		{
			name: "promo-code is renamed once",
			params: BuyURLParams{
				PlanType:           models.PlanTypeByContact,
				PlanID:             7,
				NewCheckoutEnabled: true,
				Search:             "promo-code=SAVE&x=promo-code",
			},
			expected: "/checkout/premium/byContact?selected-plan=7&PromoCode=SAVE&x=promo-code",
		},
		{
			name: "only derived params",
			params: BuyURLParams{
				PlanType:           models.PlanTypeByContact,
				PlanID:             7,
				NewCheckoutEnabled: true,
				Search:             "?selected-plan=5&discountId=2&monthPlan=3",
			},
			expected: "/checkout/premium/byContact?selected-plan=7",
		},
		{
			name: "keeps order and encoding of extras",
			params: BuyURLParams{
				PlanType:           models.PlanTypeByContact,
				PlanID:             1,
				NewCheckoutEnabled: true,
				Search:             "?z=1&a=hello%20world&flag",
			},
			expected: "/checkout/premium/byContact?selected-plan=1&z=1&a=hello+world&flag=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuyURL(tt.params))
		})
	}
}

func TestNewCheckoutEnabled(t *testing.T) {
	for _, pt := range []models.PlanType{models.PlanTypeFree, models.PlanTypeByEmail, models.PlanTypeByContact, models.PlanTypeByCredit} {
		assert.True(t, NewCheckoutEnabled(pt), pt)
	}
	assert.False(t, NewCheckoutEnabled(models.PlanTypeUnknown))
	assert.False(t, NewCheckoutEnabled(""))
}

func TestUpgradeTooltip(t *testing.T) {
	assert.True(t, UpgradeTooltip(true, models.PlanTypeByContact))
	assert.False(t, UpgradeTooltip(true, models.PlanTypeByCredit))
	assert.False(t, UpgradeTooltip(false, models.PlanTypeByEmail))
}

func TestSummaryURL(t *testing.T) {
	assert.Equal(t, "/checkout-summary?planId=1&paymentMethod=CC",
		SummaryURL(1, models.PaymentMethodCreditCard, nil, nil))

	assert.Equal(t, "/checkout-summary?planId=1&paymentMethod=TRANSF&discount=fake+description&extraCredits=100",
		SummaryURL(1, models.PaymentMethodTransfer,
			&models.Discount{ID: 1, Description: "fake description"},
			&models.PromocodeApplied{Promocode: "fake promocode", ExtraCredits: 100}))

	assert.Equal(t, "/checkout-summary?planId=2&paymentMethod=CC",
		SummaryURL(2, models.PaymentMethodCreditCard, nil, &models.PromocodeApplied{Promocode: "NOCREDITS"}))
}

func TestErrorMessageKey(t *testing.T) {
	tests := map[string]string{
		FirstDataInvalidExpirationDate: msgInvalidExpirationDate,
		CloverInvalidExpirationYear:    msgInvalidExpirationDate,
		FirstDataInvalidCCNumber:       msgInvalidCreditCardNumber,
		MercadoPagoDeclinedOtherReason: msgDeclined,
		MercadoPagoSuspectedFraud:      msgSuspectedFraud,
		CloverInsufficientFunds:        msgInsufficientFunds,
		FirstDataCardVolumeExceeded:    msgCardVolumeExceeded,
		CloverInvalidSecurityCode:      msgInvalidSecurityCode,
		OnlySupportUpSelling:           msgOnlySupportsUpselling,
		"SomethingElse":                MsgPurchaseError,
		"":                             MsgPurchaseError,
	}

	for code, expected := range tests {
		assert.Equal(t, expected, ErrorMessageKey(code), code)
	}
}
