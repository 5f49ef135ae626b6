package purchase

import (
	"net/url"
	"strconv"

	"checkout-pricing-api/models"
)

// SummaryURL is where the UI lands after a successful purchase.
func SummaryURL(planID int, method models.PaymentMethodType, discount *models.Discount, promotion *models.PromocodeApplied) string {
	u := "/checkout-summary?planId=" + strconv.Itoa(planID) + "&paymentMethod=" + url.QueryEscape(string(method))
	if discount != nil {
		u += "&discount=" + url.QueryEscape(discount.Description)
	}
	if promotion != nil && promotion.ExtraCredits > 0 {
		u += "&extraCredits=" + strconv.Itoa(promotion.ExtraCredits)
	}
	return u
}
