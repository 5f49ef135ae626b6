package pricing

import (
	"strconv"
	"strings"
)

const (
	msgPlanTitle              = "buy_process.marketing_plan_title"
	msgFeatureItemPrefix      = "buy_process.feature_item_"
	msgMonthsToHire           = "buy_process.months_to_hire"
	msgMonthsToPay            = "buy_process.months_to_pay"
	msgDifferenceMonthsToPay  = "buy_process.difference_months_to_pay"
	msgMonthOne               = "buy_process.month_with_plural.one"
	msgMonthOther             = "buy_process.month_with_plural.other"
	msgDiscountAdvancedPay    = "buy_process.feature_item_discount_advanced_pay"
	msgSavePercentage         = "buy_process.shopping_cart.save_percentage"
	msgDiscountMonthly        = "buy_process.feature_item_discount_monthly"
	msgDiscountForAdmin       = "buy_process.promocode.discount_for_admin"
	msgExtraCredits           = "buy_process.feature_item_extra_credits"
	msgDiscountForPaymentPaid = "buy_process.discount_for_payment_paid"
	msgPremiumTitle           = "checkoutProcessForm.purchase_summary.plan_premium_title"
	msgPlanTypePrefix         = "checkoutProcessForm.purchase_summary.plan_type_"
	msgNextBilling            = "checkoutProcessForm.purchase_summary.your_next_billing_legend"
	msgPayFromNextMonth       = "checkoutProcessForm.purchase_summary.to_pay_from_next_month_legend"
)

var catalogs = map[Locale]map[string]string{
	LocaleEN: {
		msgPlanTitle:                         "Marketing Plan",
		msgFeatureItemPrefix + "byContact":   "Up to {units} contacts",
		msgFeatureItemPrefix + "byEmail":     "{units} emails per month",
		msgFeatureItemPrefix + "byCredit":    "{units} credits",
		msgFeatureItemPrefix + "free":        "Free plan",
		msgMonthsToHire:                      "Months to hire:",
		msgMonthsToPay:                       "Months to pay:",
		msgDifferenceMonthsToPay:             "Difference to pay for:",
		msgMonthOne:                          "{months} month",
		msgMonthOther:                        "{months} months",
		msgDiscountAdvancedPay:               "Discount for paying {months} months in advance",
		msgSavePercentage:                    "Save {percentage}",
		msgDiscountMonthly:                   "Promocode discount for {months} months",
		msgDiscountForAdmin:                  "Discount on the administration fee {percentage}",
		msgExtraCredits:                      "{units} extra credits with your promocode",
		msgDiscountForPaymentPaid:            "Amount already paid",
		msgPremiumTitle:                      "Premium plan",
		msgPlanTypePrefix + "byContact":      "By contacts",
		msgPlanTypePrefix + "byEmail":        "By emails",
		msgPlanTypePrefix + "byCredit":       "By credits",
		msgNextBilling:                       "Your next billing will be",
		msgPayFromNextMonth:                  "You will start paying from next month",
	},
	LocaleES: {
		msgPlanTitle:                         "Plan de Marketing",
		msgFeatureItemPrefix + "byContact":   "Hasta {units} contactos",
		msgFeatureItemPrefix + "byEmail":     "{units} envíos por mes",
		msgFeatureItemPrefix + "byCredit":    "{units} créditos",
		msgFeatureItemPrefix + "free":        "Plan gratuito",
		msgMonthsToHire:                      "Meses a contratar:",
		msgMonthsToPay:                       "Meses a pagar:",
		msgDifferenceMonthsToPay:             "Diferencia a pagar por:",
		msgMonthOne:                          "{months} mes",
		msgMonthOther:                        "{months} meses",
		msgDiscountAdvancedPay:               "Descuento por pagar {months} meses por adelantado",
		msgSavePercentage:                    "Ahorra {percentage}",
		msgDiscountMonthly:                   "Descuento por código promocional durante {months} meses",
		msgDiscountForAdmin:                  "Descuento sobre el costo de administración {percentage}",
		msgExtraCredits:                      "{units} créditos extra con tu código promocional",
		msgDiscountForPaymentPaid:            "Monto ya abonado",
		msgPremiumTitle:                      "Plan premium",
		msgPlanTypePrefix + "byContact":      "Por contactos",
		msgPlanTypePrefix + "byEmail":        "Por envíos",
		msgPlanTypePrefix + "byCredit":       "Por créditos",
		msgNextBilling:                       "Tu próxima factura será de",
		msgPayFromNextMonth:                  "Comenzarás a pagar a partir del próximo mes",
	},
}

// Messages resolves message ids for one locale. Unknown ids render as the id itself.
type Messages struct {
	locale  Locale
	entries map[string]string
}

func NewMessages(locale Locale) *Messages {
	entries, ok := catalogs[locale]
	if !ok {
		locale = LocaleEN
		entries = catalogs[LocaleEN]
	}
	return &Messages{locale: locale, entries: entries}
}

func (m *Messages) Locale() Locale {
	return m.locale
}

// Format renders id replacing {name} placeholders; values are name/value pairs.
func (m *Messages) Format(id string, values ...string) string {
	text, ok := m.entries[id]
	if !ok {
		return id
	}
	if len(values) < 2 {
		return text
	}
	pairs := make([]string, 0, len(values))
	for i := 0; i+1 < len(values); i += 2 {
		pairs = append(pairs, "{"+values[i]+"}", values[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Months renders a month count with the right plural form.
func (m *Messages) Months(n int) string {
	id := msgMonthOther
	if n == 1 {
		id = msgMonthOne
	}
	return m.Format(id, "months", strconv.Itoa(n))
}
