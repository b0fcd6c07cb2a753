// Package worker drains the webhook job queue in the background. Delivery
// goes through a circuit breaker so a dead consumer endpoint doesn't burn
// every poll cycle on timeouts.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/storage"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/notifications"
)

const (
	pollInterval = 5 * time.Second
	maxAttempts  = 5
)

type Dispatcher struct {
	jobs    *storage.WebhookRepository
	url     string
	secret  string
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

func NewDispatcher(jobs *storage.WebhookRepository, url, secret string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		jobs:   jobs,
		url:    url,
		secret: secret,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "webhook-delivery",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		log: log,
	}
}

// Start polls the queue until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	if d.url == "" {
		d.log.Warn("WEBHOOK_URL not set, webhook worker disabled")
		return
	}

	go func() {
		d.log.Info("webhook worker started", "url", d.url)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				d.log.Info("webhook worker stopped")
				return
			case <-ticker.C:
				d.processJobs(ctx)
			}
		}
	}()
}

// processJobs drains everything currently due, one job at a time.
func (d *Dispatcher) processJobs(ctx context.Context) {
	for {
		job, err := d.jobs.ClaimPending(ctx)
		if err != nil {
			d.log.Error("failed to claim webhook job", "error", err)
			return
		}
		if job == nil {
			return
		}
		d.deliver(ctx, job)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, job *storage.WebhookJob) {
	_, err := d.breaker.Execute(func() (any, error) {
		return nil, notifications.SendWebhook(d.url, job.Payload, d.secret)
	})
	if err == nil {
		d.log.Info("webhook delivered", "job_id", job.ID, "event", job.Event)
		if err := d.jobs.MarkCompleted(ctx, job.ID); err != nil {
			d.log.Error("failed to mark webhook job completed", "error", err, "job_id", job.ID)
		}
		return
	}

	d.log.Error("webhook delivery failed", "error", err, "job_id", job.ID, "attempts", job.Attempts)

	if job.Attempts+1 >= maxAttempts {
		if err := d.jobs.MarkFailed(ctx, job.ID); err != nil {
			d.log.Error("failed to mark webhook job failed", "error", err, "job_id", job.ID)
		}
		d.log.Error("webhook job dropped after max attempts", "job_id", job.ID)
		return
	}

	// Linear backoff: 10s, 20s, 30s, ...
	nextRun := time.Now().Add(time.Duration(job.Attempts*10+10) * time.Second)
	if err := d.jobs.Reschedule(ctx, job.ID, nextRun); err != nil {
		d.log.Error("failed to reschedule webhook job", "error", err, "job_id", job.ID)
	}
}
