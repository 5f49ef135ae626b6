package models

// CheckoutSummary is the purchase summary panel payload.
type CheckoutSummary struct {
	Title          string            `json:"title"`
	PlanType       PlanType          `json:"planType"`
	PaymentMethod  PaymentMethodType `json:"paymentMethod"`
	Plan           PlanInformation   `json:"plan"`
	Discount       *Discount         `json:"discount,omitempty"`
	Promotion      *PromocodeApplied `json:"promotion,omitempty"`
	AllowPromocode bool              `json:"allowPromocode"`
	Total          string            `json:"total"`
	TotalAmount    string            `json:"totalAmount"`
	TaxesExcluded  bool              `json:"taxesExcluded"`
	NextBilling    string            `json:"nextBilling,omitempty"`
	TaxesLegendKey string            `json:"taxesLegendKey,omitempty"`
}
