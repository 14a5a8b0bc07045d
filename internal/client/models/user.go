// Package models defines the data exchanged with the diagram backend.
// JSON tags follow the backend's snake_case wire format.
package models

import "strings"

// SubscriptionPlan is the user's billing tier. The backend sends it in lower
// case ("free", "pro").
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "free"
	PlanPro  SubscriptionPlan = "pro"
)

// Label returns the upper-case form shown to users ("FREE", "PRO").
func (p SubscriptionPlan) Label() string {
	if p == "" {
		return strings.ToUpper(string(PlanFree))
	}
	return strings.ToUpper(string(p))
}

// IsPro reports whether the plan is the paid tier, regardless of case.
func (p SubscriptionPlan) IsPro() bool {
	return strings.EqualFold(string(p), string(PlanPro))
}

// User is the profile returned by /auth/me, /auth/login and /auth/register.
type User struct {
	ID               int64            `json:"id"`
	Email            string           `json:"email"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan"`
	IsAdmin          bool             `json:"is_admin"`
	CreatedAt        Timestamp        `json:"created_at"`
}

// AuthResponse is the body of a successful login or registration.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Credentials is the request body of login and registration.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Ack is the generic acknowledgement returned by delete endpoints.
type Ack struct {
	Message string `json:"message"`
}
