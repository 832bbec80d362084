package model

import "time"

// UserUsage is a snapshot of a user's generation-credit state for the
// current billing period, with any pending rollover already applied.
type UserUsage struct {
	UserID            string     `db:"user_id" json:"user_id"`
	UsageCount        int        `db:"usage_count" json:"usage_count"`
	UsageLimitMonthly int        `db:"usage_limit_monthly" json:"usage_limit_monthly"`
	UsageResetAt      time.Time  `db:"usage_reset_at" json:"usage_reset_at"`
	LastGenerateAt    *time.Time `db:"last_generate_at" json:"last_generate_at,omitempty"`
}

// NextMonthStart returns the first instant of the calendar month after now, in UTC.
func NextMonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// ApplyRollover returns the usage snapshot with the monthly rollover applied.
// If now is at or past the reset instant, the counter drops to zero and the
// reset instant advances to the start of the next calendar month. Every read
// and every transactional write of the counter must go through this function
// before acting on the count, so the rollover policy lives in one place.
func ApplyRollover(now time.Time, u UserUsage) UserUsage {
	if now.Before(u.UsageResetAt) {
		return u
	}
	u.UsageCount = 0
	u.UsageResetAt = NextMonthStart(now)
	return u
}
