package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound is returned when a usage operation targets a missing
// profile row. This is an account-integrity violation, not a retryable
// user-facing condition.
var ErrUserNotFound = errors.New("user not found")

// UserRepository owns user profiles and their monthly credit accounting.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)
	UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error
	// UpdatePlan switches the subscription plan and monthly credit limit.
	UpdatePlan(ctx context.Context, userID, plan string, usageLimitMonthly int) error
	// GetUsage returns the user's usage snapshot with any pending monthly
	// rollover applied and persisted.
	GetUsage(ctx context.Context, userID string) (*model.UserUsage, error)
	// IncrementUsage atomically applies any pending rollover and adds amount
	// to the period counter, stamping last_generate_at. Concurrent increments
	// for the same user must never lose an update.
	IncrementUsage(ctx context.Context, userID string, amount int) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	const q = `
        INSERT INTO user_profiles (user_id, name, email, avatar_url, plan, usage_count, usage_limit_monthly, usage_reset_at)
        VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
        RETURNING created_at, updated_at
    `
	if u.Plan == "" {
		u.Plan = model.PlanFree
	}
	if u.UsageLimitMonthly == 0 {
		u.UsageLimitMonthly = model.FreeUsageLimit
	}
	if u.UsageResetAt.IsZero() {
		u.UsageResetAt = model.NextMonthStart(time.Now())
	}
	err := r.pool.QueryRow(ctx, q, u.UserID, u.Name, u.Email, u.AvatarURL, u.Plan, u.UsageLimitMonthly, u.UsageResetAt).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", u.UserID, err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
        SELECT user_id, name, email, avatar_url, plan, stripe_customer_id,
               usage_count, usage_limit_monthly, usage_reset_at, last_generate_at,
               created_at, updated_at
        FROM user_profiles
        WHERE user_id = $1
    `
	var u model.User
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&u.UserID, &u.Name, &u.Email, &u.AvatarURL, &u.Plan, &u.StripeCustomerID,
		&u.UsageCount, &u.UsageLimitMonthly, &u.UsageResetAt, &u.LastGenerateAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return &u, nil
}

func (r *userRepo) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	const q = `
        SELECT user_id, name, email, avatar_url, plan, stripe_customer_id,
               usage_count, usage_limit_monthly, usage_reset_at, last_generate_at,
               created_at, updated_at
        FROM user_profiles
        WHERE stripe_customer_id = $1
    `
	var u model.User
	err := r.pool.QueryRow(ctx, q, customerID).Scan(
		&u.UserID, &u.Name, &u.Email, &u.AvatarURL, &u.Plan, &u.StripeCustomerID,
		&u.UsageCount, &u.UsageLimitMonthly, &u.UsageResetAt, &u.LastGenerateAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user by stripe customer %s: %w", customerID, err)
	}
	return &u, nil
}

func (r *userRepo) UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error {
	const q = `UPDATE user_profiles SET stripe_customer_id = $2, updated_at = NOW() WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, customerID)
	if err != nil {
		return fmt.Errorf("store stripe customer id for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepo) UpdatePlan(ctx context.Context, userID, plan string, usageLimitMonthly int) error {
	const q = `
        UPDATE user_profiles
        SET plan = $2, usage_limit_monthly = $3, updated_at = NOW()
        WHERE user_id = $1
    `
	tag, err := r.pool.Exec(ctx, q, userID, plan, usageLimitMonthly)
	if err != nil {
		return fmt.Errorf("update plan for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetUsage loads the usage snapshot and, if the reset instant has passed,
// persists the rollover correction inside the same transaction so a
// subsequent limit check sees a clean period.
func (r *userRepo) GetUsage(ctx context.Context, userID string) (*model.UserUsage, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("starting transaction for usage read: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	usage, err := lockUsageRow(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rolled := model.ApplyRollover(now, *usage)
	if rolled != *usage {
		const updateQ = `
            UPDATE user_profiles
            SET usage_count = $2, usage_reset_at = $3, updated_at = NOW()
            WHERE user_id = $1
        `
		if _, err := tx.Exec(ctx, updateQ, userID, rolled.UsageCount, rolled.UsageResetAt); err != nil {
			return nil, fmt.Errorf("persisting usage rollover for user %s: %w", userID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing usage read for user %s: %w", userID, err)
	}
	return &rolled, nil
}

// IncrementUsage charges generation credits in one serializable transaction:
// load, apply rollover if due, add amount, persist counter/reset/last_generate_at.
func (r *userRepo) IncrementUsage(ctx context.Context, userID string, amount int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("starting transaction for usage increment: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	usage, err := lockUsageRow(ctx, tx, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	rolled := model.ApplyRollover(now, *usage)
	rolled.UsageCount += amount

	const updateQ = `
        UPDATE user_profiles
        SET usage_count = $2, usage_reset_at = $3, last_generate_at = $4, updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := tx.Exec(ctx, updateQ, userID, rolled.UsageCount, rolled.UsageResetAt, now); err != nil {
		return fmt.Errorf("recording usage increment for user %s: %w", userID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing usage increment for user %s: %w", userID, err)
	}
	return nil
}

// lockUsageRow reads the usage columns under FOR UPDATE so concurrent
// transactions on the same user serialize instead of losing updates.
func lockUsageRow(ctx context.Context, tx pgx.Tx, userID string) (*model.UserUsage, error) {
	const q = `
        SELECT user_id, usage_count, usage_limit_monthly, usage_reset_at, last_generate_at
        FROM user_profiles
        WHERE user_id = $1
        FOR UPDATE
    `
	var u model.UserUsage
	err := tx.QueryRow(ctx, q, userID).Scan(&u.UserID, &u.UsageCount, &u.UsageLimitMonthly, &u.UsageResetAt, &u.LastGenerateAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("reading usage for user %s: %w", userID, err)
	}
	return &u, nil
}
