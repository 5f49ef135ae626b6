package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PlanType identifies how a marketing plan is billed.
type PlanType string

const (
	PlanTypeByContact PlanType = "byContact"
	PlanTypeByEmail   PlanType = "byEmail"
	PlanTypeByCredit  PlanType = "byCredit"
	PlanTypeFree      PlanType = "free"
	PlanTypeUnknown   PlanType = "unknown"
)

var planTypeSegments = map[string]PlanType{
	"subscribers":        PlanTypeByContact,
	"monthly-deliveries": PlanTypeByEmail,
	"prepaid":            PlanTypeByCredit,
	"free":               PlanTypeFree,
}

// ParsePlanType accepts both the canonical names and the URL segments used by the
// checkout routes. Anything else is PlanTypeUnknown.
func ParsePlanType(value string) PlanType {
	switch PlanType(value) {
	case PlanTypeByContact, PlanTypeByEmail, PlanTypeByCredit, PlanTypeFree:
		return PlanType(value)
	}
	if pt, ok := planTypeSegments[strings.ToLower(value)]; ok {
		return pt
	}
	return PlanTypeUnknown
}

func (pt PlanType) IsValid() bool {
	return pt == PlanTypeByContact || pt == PlanTypeByEmail || pt == PlanTypeByCredit || pt == PlanTypeFree
}

// URLSegment returns the path segment the legacy checkout routes use for the type.
func (pt PlanType) URLSegment() string {
	for segment, planType := range planTypeSegments {
		if planType == pt {
			return segment
		}
	}
	return string(PlanTypeUnknown)
}

func (pt *PlanType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*pt = ParsePlanType(raw)
	return nil
}

// MarketingPlan is a purchasable service tier as returned by the account plans API.
type MarketingPlan struct {
	ID             int             `json:"id"`
	Type           PlanType        `json:"type"`
	Fee            decimal.Decimal `json:"fee"`
	EmailQty       int             `json:"emailQty"`
	SubscribersQty int             `json:"subscribersQty"`
}

// Quantity returns the units the plan sells: contacts for byContact plans, emails
// or credits otherwise. Free plans have no purchasable units.
func (p MarketingPlan) Quantity() int {
	switch p.Type {
	case PlanTypeByContact:
		return p.SubscribersQty
	case PlanTypeByEmail, PlanTypeByCredit:
		return p.EmailQty
	default:
		return 0
	}
}

// PaymentFrequency is the billing frequency picked by the user.
type PaymentFrequency struct {
	NumberMonths int `json:"numberMonths"`
}
