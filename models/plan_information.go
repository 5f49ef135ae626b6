package models

// Feature is one descriptive entry of the purchase summary. OnRemove is only carried
// through for the caller; nothing in this service invokes it.
type Feature struct {
	Text      string `json:"text"`
	Badge     string `json:"badge,omitempty"`
	Removable bool   `json:"removable"`
	OnRemove  func() `json:"-"`
}

// LineItem is a single labeled monetary entry.
type LineItem struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type PlanInformation struct {
	Name        string        `json:"name"`
	FeatureList []Feature     `json:"featureList"`
	BillingList []LineItem    `json:"billingList"`
	Data        MarketingPlan `json:"data"`
}
