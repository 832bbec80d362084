package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxRegenerations bounds how many times one job's output may be regenerated.
const MaxRegenerations = 5

var (
	ErrJobNotFound = errors.New("job not found")
	// ErrJobUnauthorized is returned when the job belongs to another user.
	ErrJobUnauthorized = errors.New("job does not belong to user")
	// ErrRegenerationLimitExceeded is returned once the per-job cap is reached.
	ErrRegenerationLimitExceeded = errors.New("regeneration limit exceeded")
)

// JobRepository persists generation artifacts and their regeneration ledger.
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
	ListJobsByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Job, error)
	// UpdateJobOutputs replaces the stored outputs after a successful
	// regeneration so history reflects the latest produced content.
	UpdateJobOutputs(ctx context.Context, jobID string, outputs map[model.Format]string) error
	// HideJob soft-deletes a job from the caller's history.
	HideJob(ctx context.Context, jobID, userID string) error
	// ValidateAndIncrementRegeneration checks ownership and the regeneration
	// cap and increments the counter, all inside one serializable
	// transaction: with the counter at MaxRegenerations-1, exactly one of
	// any number of concurrent calls may succeed.
	ValidateAndIncrementRegeneration(ctx context.Context, jobID, userID string) error
}

type jobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepo creates a new JobRepository.
func NewJobRepo(pool *pgxpool.Pool) JobRepository {
	return &jobRepo{pool: pool}
}

func (r *jobRepo) CreateJob(ctx context.Context, job *model.Job) error {
	contextJSON, err := json.Marshal(job.Context)
	if err != nil {
		return fmt.Errorf("marshal job context: %w", err)
	}
	formatsJSON, err := json.Marshal(job.Formats)
	if err != nil {
		return fmt.Errorf("marshal job formats: %w", err)
	}
	outputsJSON, err := json.Marshal(job.Outputs)
	if err != nil {
		return fmt.Errorf("marshal job outputs: %w", err)
	}

	const q = `
        INSERT INTO jobs (id, user_id, input_text, context, formats, outputs, is_paid, regeneration_count, visible_in_history)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 0, TRUE)
        RETURNING created_at, updated_at
    `
	err = r.pool.QueryRow(ctx, q, job.ID, job.UserID, job.InputText, contextJSON, formatsJSON, outputsJSON, job.IsPaid).
		Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating job for user %s: %w", job.UserID, err)
	}
	return nil
}

func (r *jobRepo) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	const q = `
        SELECT id, user_id, input_text, context, formats, outputs, is_paid,
               regeneration_count, visible_in_history, created_at, updated_at
        FROM jobs
        WHERE id = $1
    `
	job, err := scanJob(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("fetch job %s: %w", id, err)
	}
	return job, nil
}

func (r *jobRepo) ListJobsByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Job, error) {
	const q = `
        SELECT id, user_id, input_text, context, formats, outputs, is_paid,
               regeneration_count, visible_in_history, created_at, updated_at
        FROM jobs
        WHERE user_id = $1 AND visible_in_history
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for user %s: %w", userID, err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job for user %s: %w", userID, err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs for user %s: %w", userID, err)
	}
	return jobs, nil
}

func (r *jobRepo) UpdateJobOutputs(ctx context.Context, jobID string, outputs map[model.Format]string) error {
	outputsJSON, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("marshal job outputs: %w", err)
	}
	const q = `UPDATE jobs SET outputs = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, jobID, outputsJSON)
	if err != nil {
		return fmt.Errorf("updating outputs for job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *jobRepo) HideJob(ctx context.Context, jobID, userID string) error {
	const q = `UPDATE jobs SET visible_in_history = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, jobID, userID)
	if err != nil {
		return fmt.Errorf("hiding job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

// ValidateAndIncrementRegeneration is the single concurrency-critical
// operation of the pipeline. The FOR UPDATE read inside a serializable
// transaction guarantees that at most MaxRegenerations increments ever
// commit for one job, regardless of request concurrency.
func (r *jobRepo) ValidateAndIncrementRegeneration(ctx context.Context, jobID, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("starting transaction for regeneration check: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const selectQ = `SELECT user_id, regeneration_count FROM jobs WHERE id = $1 FOR UPDATE`
	var ownerID string
	var count int
	if err := tx.QueryRow(ctx, selectQ, jobID).Scan(&ownerID, &count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("reading regeneration count for job %s: %w", jobID, err)
	}
	if ownerID != userID {
		return ErrJobUnauthorized
	}
	if count >= MaxRegenerations {
		return ErrRegenerationLimitExceeded
	}

	const updateQ = `UPDATE jobs SET regeneration_count = regeneration_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, updateQ, jobID); err != nil {
		return fmt.Errorf("incrementing regeneration count for job %s: %w", jobID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing regeneration increment for job %s: %w", jobID, err)
	}
	return nil
}

// scanJob reads one job row, decoding the jsonb columns.
func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job         model.Job
		contextJSON []byte
		formatsJSON []byte
		outputsJSON []byte
	)
	err := row.Scan(
		&job.ID, &job.UserID, &job.InputText, &contextJSON, &formatsJSON, &outputsJSON,
		&job.IsPaid, &job.RegenerationCount, &job.VisibleInHistory, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(contextJSON, &job.Context); err != nil {
		return nil, fmt.Errorf("unmarshal job context: %w", err)
	}
	if err := json.Unmarshal(formatsJSON, &job.Formats); err != nil {
		return nil, fmt.Errorf("unmarshal job formats: %w", err)
	}
	if err := json.Unmarshal(outputsJSON, &job.Outputs); err != nil {
		return nil, fmt.Errorf("unmarshal job outputs: %w", err)
	}
	return &job, nil
}
