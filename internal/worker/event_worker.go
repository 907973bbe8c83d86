package worker

// event_worker.go
// Processes sale event jobs from QueueEvents.
// Delivers each event to the configured webhook endpoint through the circuit
// breaker, with exponential backoff (max 3 in-process retries). Events that
// still fail are parked in event_deliveries for the retry cron.
// For sale.created the worker also generates the PDF receipt and optionally
// enqueues an email job with it attached.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salesapi/internal/infra"
	"salesapi/internal/metrics"
	"salesapi/internal/model"
	"salesapi/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventWorker delivers sale events and produces the sale.created side effects.
type EventWorker struct {
	webhook        *infra.WebhookClient
	cb             *infra.CircuitBreaker
	deliveryRepo   repository.EventDeliveryRepository
	saleRepo       repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewEventWorker(
	webhook *infra.WebhookClient,
	cb *infra.CircuitBreaker,
	deliveryRepo repository.EventDeliveryRepository,
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *EventWorker {
	return &EventWorker{
		webhook:        webhook,
		cb:             cb,
		deliveryRepo:   deliveryRepo,
		saleRepo:       saleRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single event job:
//  1. Parse EventJob from the job envelope
//  2. Deliver to the webhook through the circuit breaker, with backoff
//  3. On final failure, park the event in event_deliveries for the retry cron
//  4. For sale.created: generate the PDF receipt, optionally enqueue email
func (w *EventWorker) Process(ctx context.Context, raw json.RawMessage) {
	var job EventJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("event_worker: invalid payload")
		return
	}

	if w.webhook != nil && w.webhook.Enabled() {
		deliverErr := withRetry(ctx, 3, func(attempt int) error {
			return w.cb.Execute(func() error {
				return w.webhook.Deliver(ctx, job.EventName, job.SaleID.String(), job.Payload)
			})
		})
		if deliverErr != nil {
			metrics.EventDeliveryFailures.WithLabelValues(job.EventName).Inc()
			log.Error().Err(deliverErr).
				Str("event", job.EventName).
				Str("sale_id", job.SaleID.String()).
				Msg("event_worker: delivery failed, parking for retry")
			w.park(ctx, job, deliverErr)
		} else {
			metrics.EventsDelivered.WithLabelValues(job.EventName).Inc()
			log.Info().Str("event", job.EventName).Str("sale_id", job.SaleID.String()).
				Msg("event_worker: event delivered")
		}
	} else {
		// No consumer configured — the event is logged and dropped
		log.Info().Str("event", job.EventName).Str("sale_id", job.SaleID.String()).
			RawJSON("payload", job.Payload).Msg("event_worker: no webhook configured")
	}

	if job.EventName == "sale.created" {
		w.handleSaleCreated(ctx, job)
	}
}

// park records a failed delivery so the retry cron can pick it up.
func (w *EventWorker) park(ctx context.Context, job EventJob, cause error) {
	if w.deliveryRepo == nil {
		return
	}
	next := time.Now().Add(computeRetryBackoff(1))
	rec := &model.EventDelivery{
		ID:          uuid.New(),
		SaleID:      job.SaleID,
		EventName:   job.EventName,
		Payload:     job.Payload,
		Status:      model.DeliveryPending,
		RetryCount:  1,
		NextRetryAt: &next,
		LastError:   cause.Error(),
	}
	if err := w.deliveryRepo.Create(ctx, rec); err != nil {
		log.Error().Err(err).Str("sale_id", job.SaleID.String()).
			Msg("event_worker: failed to park delivery")
	}
}

// handleSaleCreated generates the PDF receipt and, when a customer email was
// supplied, enqueues the email job with the receipt attached.
func (w *EventWorker) handleSaleCreated(ctx context.Context, job EventJob) {
	if w.saleRepo == nil {
		return
	}
	rec, err := w.saleRepo.FindByID(ctx, job.SaleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", job.SaleID.String()).Msg("event_worker: sale not found")
		return
	}

	pdfPath, pdfErr := infra.GenerateReceiptPDF(rec, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("sale_id", job.SaleID.String()).Msg("event_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", job.SaleID.String()).Msg("event_worker: PDF generated")

	if job.CustomerEmail != nil && *job.CustomerEmail != "" && w.dispatcher != nil {
		emailJob := EmailJobPayload{
			ToEmail: *job.CustomerEmail,
			Subject: fmt.Sprintf("Your receipt — sale %s", rec.Number),
			Body:    fmt.Sprintf("Attached is your purchase receipt.\nTotal: $%s", rec.TotalPayable.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *job.CustomerEmail).Msg("event_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *job.CustomerEmail).Msg("event_worker: email job enqueued")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
