package pricing

import (
	"github.com/shopspring/decimal"

	"checkout-pricing-api/models"
)

const (
	TaxesLegendByCredits = "checkoutProcessForm.purchase_summary.explanatory_legend_by_credits"
	TaxesLegend          = "checkoutProcessForm.purchase_summary.explanatory_legend"
	TaxesLegendTransfer  = "checkoutProcessForm.purchase_summary.transfer_explanatory_legend"
)

// SummaryInput extends the breakdown input with what the summary panel shows around it.
type SummaryInput struct {
	Input
	PaymentMethod models.PaymentMethodType
	Discount      *models.Discount
}

// Summarize builds the whole purchase summary panel. The total is always the server
// total from the amount details.
func Summarize(in SummaryInput) models.CheckoutSummary {
	planType := in.PlanType
	if planType == "" {
		planType = in.Plan.Type
	}
	in.PlanType = planType
	msg := NewMessages(in.Locale)

	summary := models.CheckoutSummary{
		Title:          SummaryTitle(msg, planType),
		PlanType:       planType,
		PaymentMethod:  in.PaymentMethod,
		Plan:           Calculate(in.Input),
		Discount:       in.Discount,
		Promotion:      in.Promocode,
		AllowPromocode: in.Discount == nil || in.Discount.ApplyPromo,
		Total:          TotalLine(msg.Locale(), in.AmountDetails.Total, in.PaymentMethod),
		TotalAmount:    in.AmountDetails.Total.StringFixed(2),
		TaxesExcluded:  in.PaymentMethod == models.PaymentMethodTransfer,
		NextBilling:    NextBilling(msg, planType, in.Plan.Fee, in.Discount, in.AmountDetails),
		TaxesLegendKey: TaxesLegendKey(planType, in.PaymentMethod),
	}
	return summary
}

// SummaryTitle is "Premium plan - By contacts" for paid plans and empty otherwise.
func SummaryTitle(msg *Messages, planType models.PlanType) string {
	switch planType {
	case models.PlanTypeByContact, models.PlanTypeByEmail, models.PlanTypeByCredit:
		return msg.Format(msgPremiumTitle) + " - " + msg.Format(msgPlanTypePrefix+string(planType))
	default:
		return ""
	}
}

// TotalLine renders the server total. Transfers are marked because taxes are excluded.
func TotalLine(locale Locale, total decimal.Decimal, method models.PaymentMethodType) string {
	line := FormatMoney(locale, total)
	if method == models.PaymentMethodTransfer {
		line += "*"
	}
	return line
}

// NextBilling is only shown for monthly plans.
func NextBilling(msg *Messages, planType models.PlanType, fee decimal.Decimal, discount *models.Discount, details models.AmountDetails) string {
	if planType != models.PlanTypeByContact && planType != models.PlanTypeByEmail {
		return ""
	}
	months := 1
	if discount != nil && discount.MonthsAmount > 0 {
		months = discount.MonthsAmount
	}
	planTotal := fee.Mul(decimal.NewFromInt(int64(months)))
	if !planTotal.IsPositive() {
		return msg.Format(msgPayFromNextMonth)
	}
	if p := details.DiscountPrepayment; p != nil {
		planTotal = planTotal.Sub(p.Amount)
	}
	return msg.Format(msgNextBilling) + " " + FormatMoney(msg.Locale(), planTotal)
}

// TaxesLegendKey returns the message id of the legend under the total, empty for none.
func TaxesLegendKey(planType models.PlanType, method models.PaymentMethodType) string {
	switch planType {
	case models.PlanTypeByCredit:
		if method == models.PaymentMethodCreditCard {
			return ""
		}
		return TaxesLegendByCredits
	case models.PlanTypeByContact, models.PlanTypeByEmail:
		if method == models.PaymentMethodCreditCard {
			return TaxesLegend
		}
		return TaxesLegendTransfer
	default:
		return ""
	}
}
