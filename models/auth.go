package models

// AuthUser is the account carried by the UI session token.
type AuthUser struct {
	Email       string   `json:"email"`
	PlanID      int      `json:"plan_id"`
	PlanType    PlanType `json:"plan_type"`
	AccountType string   `json:"account_type"`
	Token       string   `json:"-"`
}
