package models

// PromocodeApplied is a validated promocode kept in the user's checkout session until
// it is removed.
type PromocodeApplied struct {
	Promocode    string   `json:"promocode"`
	PlanType     PlanType `json:"planType"`
	ExtraCredits int      `json:"extraCredits"`
	Duration     int      `json:"duration"`
}
