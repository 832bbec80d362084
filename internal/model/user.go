package model

import "time"

// Subscription plans.
const (
	PlanFree    = "free"
	PlanCreator = "creator"
)

// Monthly generation-credit limits per plan.
const (
	FreeUsageLimit    = 5
	CreatorUsageLimit = 100
)

// User represents a user profile with its usage-accounting fields.
// The usage fields are mutated only inside transactional repository
// operations so that concurrent requests never lose an increment.
type User struct {
	UserID            string     `db:"user_id" json:"user_id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	AvatarURL         string     `db:"avatar_url" json:"avatar_url"`
	Plan              string     `db:"plan" json:"plan"`
	StripeCustomerID  *string    `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	UsageCount        int        `db:"usage_count" json:"usage_count"`
	UsageLimitMonthly int        `db:"usage_limit_monthly" json:"usage_limit_monthly"`
	UsageResetAt      time.Time  `db:"usage_reset_at" json:"usage_reset_at"`
	LastGenerateAt    *time.Time `db:"last_generate_at" json:"last_generate_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPaid reports whether the user is on a paying plan.
func (u *User) IsPaid() bool {
	return u.Plan == PlanCreator
}
