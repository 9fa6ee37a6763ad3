package model

import (
	"time"
)

// Plan enumerates the available subscription plans.
type Plan string

const (
	PlanMonthly Plan = "MONTHLY"
	PlanYearly  Plan = "YEARLY"
)

// Duration returns how long the plan runs from activation.
func (p Plan) Duration() time.Duration {
	if p == PlanYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

// Subscription records a student's premium access window. The premium gate
// is the boolean ActiveAt(now), never the row's mere existence.
type Subscription struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Plan      Plan      `json:"plan"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActiveAt reports whether the subscription covers the given instant.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// ActivateSubscriptionRequest is the payload for activating a plan.
type ActivateSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required,oneof=MONTHLY YEARLY"`
}
