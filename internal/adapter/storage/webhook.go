package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WebhookJob is one queued outbound notification. Jobs are written in the
// same transaction as the ledger entries they announce, so a job exists
// exactly when its transaction committed.
type WebhookJob struct {
	ID       int64
	Event    string
	Payload  []byte
	Attempts int
}

type WebhookRepository struct {
	db *pgxpool.Pool
}

func NewWebhookRepository(db *pgxpool.Pool) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Enqueue(ctx context.Context, q Querier, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO webhook_jobs (event, payload, status, next_run_at)
		VALUES ($1, $2, 'PENDING', now())`, event, body)
	if err != nil {
		return fmt.Errorf("failed to enqueue webhook: %w", err)
	}
	return nil
}

// ClaimPending atomically picks the oldest due job and flips it to
// PROCESSING; SKIP LOCKED keeps concurrent workers off each other's jobs.
// Returns nil when the queue is empty.
func (r *WebhookRepository) ClaimPending(ctx context.Context) (*WebhookJob, error) {
	query := `
		UPDATE webhook_jobs SET status = 'PROCESSING'
		WHERE id = (
			SELECT id FROM webhook_jobs
			WHERE status = 'PENDING' AND next_run_at <= now()
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event, payload, attempts`

	var job WebhookJob
	err := r.db.QueryRow(ctx, query).Scan(&job.ID, &job.Event, &job.Payload, &job.Attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim webhook job: %w", err)
	}
	return &job, nil
}

func (r *WebhookRepository) MarkCompleted(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE webhook_jobs SET status = 'COMPLETED' WHERE id = $1`, id)
	return err
}

func (r *WebhookRepository) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1`, id)
	return err
}

// Reschedule parks the job back in PENDING with a bumped attempt count.
func (r *WebhookRepository) Reschedule(ctx context.Context, id int64, nextRun time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE webhook_jobs
		SET status = 'PENDING', attempts = attempts + 1, next_run_at = $2
		WHERE id = $1`, id, nextRun)
	return err
}
