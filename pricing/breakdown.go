package pricing

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"checkout-pricing-api/models"
)

// Input is everything the breakdown needs. All of it is fetched by the caller.
type Input struct {
	Plan          models.MarketingPlan
	PlanType      models.PlanType // defaults to Plan.Type
	Frequency     *models.PaymentFrequency
	AmountDetails models.AmountDetails
	Promocode     *models.PromocodeApplied
	// RemovePromocode is attached to removable features, never called here.
	RemovePromocode func()
	Locale          Locale
}

// rule appends zero or more entries to a copy of info. Rules never touch the input.
type rule func(info models.PlanInformation, b *breakdown) models.PlanInformation

// Order is the display order of the summary.
var rules = []rule{
	baseFeature,
	monthsToHire,
	monthsToPay,
	prepaymentDiscount,
	promocodeDiscount,
	feeAdminDiscount,
	promocodeExtraCredits,
	alreadyPaidDiscount,
}

type breakdown struct {
	Input
	planType models.PlanType
	msg      *Messages
}

// numberMonths is the selected frequency in months, 0 when none was selected.
func (b *breakdown) numberMonths() int {
	if b.Frequency == nil || b.Frequency.NumberMonths <= 0 {
		return 0
	}
	return b.Frequency.NumberMonths
}

// feeFor is fee × months when a frequency is selected, the plain fee otherwise.
func (b *breakdown) feeFor(months int) decimal.Decimal {
	if b.numberMonths() == 0 {
		return b.Plan.Fee
	}
	return b.Plan.Fee.Mul(decimal.NewFromInt(int64(months)))
}

// Calculate builds the purchase summary of a marketing plan.
func Calculate(in Input) models.PlanInformation {
	b := &breakdown{
		Input:    in,
		planType: in.PlanType,
		msg:      NewMessages(in.Locale),
	}
	if b.planType == "" {
		b.planType = in.Plan.Type
	}

	info := models.PlanInformation{
		Name:        b.msg.Format(msgPlanTitle),
		FeatureList: []models.Feature{},
		BillingList: []models.LineItem{},
		Data:        in.Plan,
	}
	for _, apply := range rules {
		info = apply(info, b)
	}
	return info
}

func withFeature(info models.PlanInformation, f models.Feature) models.PlanInformation {
	info.FeatureList = append(slices.Clip(info.FeatureList), f)
	return info
}

func withLine(info models.PlanInformation, l models.LineItem) models.PlanInformation {
	info.BillingList = append(slices.Clip(info.BillingList), l)
	return info
}

func baseFeature(info models.PlanInformation, b *breakdown) models.PlanInformation {
	units := FormatUnits(b.msg.Locale(), b.Plan.Quantity())
	return withFeature(info, models.Feature{
		Text: b.msg.Format(msgFeatureItemPrefix+string(b.planType), "units", units),
	})
}

func monthsToHire(info models.PlanInformation, b *breakdown) models.PlanInformation {
	if b.planType != models.PlanTypeByContact {
		return info
	}
	months := b.numberMonths()
	if months == 0 {
		months = 1
	}
	text := b.msg.Format(msgMonthsToHire) + " " + b.msg.Months(months) + " " +
		FormatMoney(b.msg.Locale(), b.feeFor(months))
	return withFeature(info, models.Feature{Text: text})
}

func monthsToPay(info models.PlanInformation, b *breakdown) models.PlanInformation {
	if b.planType != models.PlanTypeByContact && b.planType != models.PlanTypeByEmail {
		return info
	}
	months := b.numberMonths()
	if p := b.AmountDetails.DiscountPrepayment; p != nil && p.MonthsToPay > 0 {
		months = p.MonthsToPay
	}
	if months == 0 {
		months = 1
	}

	id := msgMonthsToPay
	if b.planType == models.PlanTypeByContact {
		id = msgDifferenceMonthsToPay
	}
	return withLine(info, models.LineItem{
		Label:  b.msg.Format(id, "months", strconv.Itoa(months)) + " " + b.msg.Months(months),
		Amount: FormatMoney(b.msg.Locale(), b.feeFor(months)),
	})
}

func prepaymentDiscount(info models.PlanInformation, b *breakdown) models.PlanInformation {
	p := b.AmountDetails.DiscountPrepayment
	if p == nil || !p.DiscountPercentage.IsPositive() {
		return info
	}
	percentage := FormatPercentage(p.DiscountPercentage)
	info = withFeature(info, models.Feature{
		Text:  b.msg.Format(msgDiscountAdvancedPay, "months", strconv.Itoa(b.numberMonths())),
		Badge: "-" + percentage,
	})
	return withLine(info, models.LineItem{
		Label:  b.msg.Format(msgSavePercentage, "percentage", percentage),
		Amount: FormatDiscount(b.msg.Locale(), p.Amount),
	})
}

func promocodeDiscount(info models.PlanInformation, b *breakdown) models.PlanInformation {
	p := b.AmountDetails.DiscountPromocode
	if p == nil || !p.DiscountPercentage.IsPositive() {
		return info
	}
	duration := p.Duration
	if b.Promocode != nil && b.Promocode.Duration != 0 {
		duration = b.Promocode.Duration
	}

	feature := models.Feature{
		Text: b.msg.Format(msgDiscountMonthly, "months", strconv.Itoa(duration)),
	}
	if b.Promocode != nil {
		feature.Removable = true
		feature.OnRemove = b.RemovePromocode
	}
	info = withFeature(info, feature)
	return withLine(info, models.LineItem{
		Label:  b.msg.Format(msgSavePercentage, "percentage", FormatPercentage(p.DiscountPercentage)),
		Amount: FormatDiscount(b.msg.Locale(), p.Amount) + "*",
	})
}

func feeAdminDiscount(info models.PlanInformation, b *breakdown) models.PlanInformation {
	p := b.AmountDetails.DiscountPlanFeeAdmin
	if p == nil || !p.DiscountPercentage.IsPositive() {
		return info
	}
	return withLine(info, models.LineItem{
		Label:  b.msg.Format(msgDiscountForAdmin, "percentage", FormatPercentage(p.DiscountPercentage)),
		Amount: FormatDiscount(b.msg.Locale(), p.Amount),
	})
}

func promocodeExtraCredits(info models.PlanInformation, b *breakdown) models.PlanInformation {
	p := b.Promocode
	if p == nil || p.PlanType != models.PlanTypeByCredit || p.ExtraCredits <= 0 {
		return info
	}
	return withFeature(info, models.Feature{
		Text:      b.msg.Format(msgExtraCredits, "units", FormatUnits(b.msg.Locale(), p.ExtraCredits)),
		Removable: true,
		OnRemove:  b.RemovePromocode,
	})
}

func alreadyPaidDiscount(info models.PlanInformation, b *breakdown) models.PlanInformation {
	paid := b.AmountDetails.DiscountPaymentAlreadyPaid
	if !paid.IsPositive() {
		return info
	}
	return withLine(info, models.LineItem{
		Label:  b.msg.Format(msgDiscountForPaymentPaid),
		Amount: FormatDiscount(b.msg.Locale(), paid),
	})
}
