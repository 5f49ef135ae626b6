package purchase

import (
	"net/url"
	"strconv"
	"strings"

	"checkout-pricing-api/models"
)

// Params re-derived from the selection; they are removed from the incoming query so
// they never appear twice.
var derivedParams = map[string]bool{
	"selected-plan": true,
	"discountId":    true,
	"monthPlan":     true,
}

// BuyURLParams describes the selection the user wants to buy.
type BuyURLParams struct {
	ControlPanelURL    string
	PlanType           models.PlanType
	PlanID             int
	DiscountID         int
	MonthPlan          int
	NewCheckoutEnabled bool
	// Search is the current query string, with or without the leading "?".
	Search string
}

// BuyURL builds the link that starts the purchase of a plan, either in the new
// checkout or in the legacy control panel upgrade flow.
func BuyURL(p BuyURLParams) string {
	extras := preservedQuery(p.Search)
	if extras != "" {
		extras = "&" + strings.Replace(extras, "promo-code", "PromoCode", 1)
	}

	var b strings.Builder
	if p.NewCheckoutEnabled {
		b.WriteString("/checkout/premium/")
		b.WriteString(string(p.PlanType))
		b.WriteString("?selected-plan=")
		b.WriteString(strconv.Itoa(p.PlanID))
		if p.DiscountID != 0 {
			b.WriteString("&discountId=")
			b.WriteString(strconv.Itoa(p.DiscountID))
		}
		if p.MonthPlan != 0 {
			b.WriteString("&monthPlan=")
			b.WriteString(strconv.Itoa(p.MonthPlan))
		}
	} else {
		b.WriteString(p.ControlPanelURL)
		b.WriteString("/AccountPreferences/UpgradeAccountStep2?IdUserTypePlan=")
		b.WriteString(strconv.Itoa(p.PlanID))
		b.WriteString("&fromStep1=True")
		if p.DiscountID != 0 {
			b.WriteString("&IdDiscountPlan=")
			b.WriteString(strconv.Itoa(p.DiscountID))
		}
	}
	b.WriteString(extras)
	return b.String()
}

// preservedQuery drops the derived params from search and re-encodes the rest keeping
// the original order. url.Values is not used because Encode sorts keys.
func preservedQuery(search string) string {
	search = strings.TrimPrefix(search, "?")
	if search == "" {
		return ""
	}

	pairs := make([]string, 0, strings.Count(search, "&")+1)
	for _, part := range strings.Split(search, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		if derivedParams[key] {
			continue
		}
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return strings.Join(pairs, "&")
}

// NewCheckoutEnabled reports whether accounts of the session plan type buy through the
// new checkout.
func NewCheckoutEnabled(sessionPlanType models.PlanType) bool {
	return sessionPlanType.IsValid()
}

// UpgradeTooltip reports whether the buy link warns that the plan is the current one.
// Credit plans can always be bought again.
func UpgradeTooltip(isEqualPlan bool, sessionPlanType models.PlanType) bool {
	return isEqualPlan && sessionPlanType != models.PlanTypeByCredit
}
