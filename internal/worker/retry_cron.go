package worker

// retry_cron.go
// Background goroutine that periodically re-attempts webhook delivery for
// events stuck in status='pending' with a next_retry_at in the past.
// Uses the Circuit Breaker to avoid hammering a downed consumer endpoint.

import (
	"context"
	"time"

	"salesapi/internal/infra"
	"salesapi/internal/metrics"
	"salesapi/internal/model"
	"salesapi/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxDeliveryRetries is the total attempt budget per event before it is
	// marked failed and moved to the DLQ.
	MaxDeliveryRetries = 5
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	DeliveryRepo repository.EventDeliveryRepository
	Webhook      *infra.WebhookClient
	CB           *infra.CircuitBreaker
	RDB          *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending deliveries, and re-attempts them through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed endpoint
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	deliveries, err := cfg.DeliveryRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	if len(deliveries) == 0 {
		return
	}

	log.Info().Int("count", len(deliveries)).Msg("retry_cron: processing pending deliveries")

	for i := range deliveries {
		del := &deliveries[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		cbErr := cfg.CB.Execute(func() error {
			return cfg.Webhook.Deliver(ctx, del.EventName, del.SaleID.String(), del.Payload)
		})

		if cbErr != nil {
			// Failure — increment retry count, schedule next attempt
			del.RetryCount++
			del.LastError = cbErr.Error()
			nextRetry := time.Now().Add(computeRetryBackoff(del.RetryCount))
			del.NextRetryAt = &nextRetry
			metrics.EventDeliveryFailures.WithLabelValues(del.EventName).Inc()

			if del.RetryCount >= MaxDeliveryRetries {
				del.Status = model.DeliveryFailed
				del.NextRetryAt = nil
				log.Error().
					Str("delivery_id", del.ID.String()).
					Str("sale_id", del.SaleID.String()).
					Int("retries", del.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to failed/DLQ")

				// Send to DLQ for manual inspection
				SendToDLQ(ctx, cfg.RDB, QueueEvents, "event", del.Payload,
					"max retries exceeded: "+del.LastError, del.RetryCount)
			} else {
				log.Warn().
					Str("delivery_id", del.ID.String()).
					Int("retry_count", del.RetryCount).
					Time("next_retry_at", *del.NextRetryAt).
					Msg("retry_cron: delivery retry failed, scheduled next attempt")
			}

			_ = cfg.DeliveryRepo.Update(ctx, del)
			continue
		}

		// Success path
		del.Status = model.DeliveryDelivered
		del.NextRetryAt = nil
		del.LastError = ""
		_ = cfg.DeliveryRepo.Update(ctx, del)
		metrics.EventsDelivered.WithLabelValues(del.EventName).Inc()

		log.Info().
			Str("delivery_id", del.ID.String()).
			Str("event", del.EventName).
			Int("total_retries", del.RetryCount).
			Msg("retry_cron: event delivered after retry")
	}
}

// computeRetryBackoff returns the wait before the next attempt:
// 1m, 2m, 4m, 8m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	backoff := time.Minute * time.Duration(1<<uint(retryCount-1))
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}
