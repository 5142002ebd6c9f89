// Package shipping consumes ship requests and records shipments.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	domorder "github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/jewelshop/internal/domain/outbox"
	domshipping "github.com/Zhima-Mochi/jewelshop/internal/domain/shipping"
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	spanPrefix     = "UC."
	workerService  = "shipping-worker"
	publishTimeout = 300 * time.Millisecond
)

type IDGenerator interface {
	NewID() string
}

type Worker struct {
	orders    domorder.Repository
	shipments domshipping.Repository
	publisher domoutbox.Publisher
	ids       IDGenerator
	tracer    observability.Tracer

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewWorker(
	orders domorder.Repository,
	shipments domshipping.Repository,
	publisher domoutbox.Publisher,
	ids IDGenerator,
	tel observability.Observability,
) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		orders:       orders,
		shipments:    shipments,
		publisher:    publisher,
		ids:          ids,
		tracer:       tel.Tracer(),
		log:          tel.Logger().With(observability.F("service", workerService)),
		reqCounter:   tel.Metrics().Counter(observability.MUsecaseRequests),
		durHistogram: tel.Metrics().Histogram(observability.MUsecaseDuration),
	}
}

// Handlers maps the event names the worker consumes to their handlers.
func (w *Worker) Handlers() map[string]domoutbox.Handler {
	return map[string]domoutbox.Handler{
		domorder.ShipRequestedEvent{}.EventName(): w.HandleShipRequested,
	}
}

func (w *Worker) HandleShipRequested(ctx context.Context, e domoutbox.Event) (err error) {
	const useCase = "shipping.worker.ship_requested"
	evt, ok := e.(domorder.ShipRequestedEvent)
	if !ok {
		w.count(useCase, "ignored")
		return nil
	}

	ctx, span := w.tracer.Start(ctx, spanPrefix+"ShipRequested",
		attribute.String("use_case", useCase),
		attribute.String("event", e.EventName()),
		attribute.String("order.id", evt.OrderID),
	)
	start := time.Now()
	outcome, status := "success", "OK"
	var tracking string

	ctx, logger := logctx.Enrich(ctx, w.log,
		observability.F("use_case", useCase),
		observability.F("order_id", evt.OrderID),
	)

	defer func() {
		lat := time.Since(start).Seconds()
		w.observe(useCase, outcome, lat)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", status),
			observability.F("latency_seconds", lat),
		}
		if tracking != "" {
			fields = append(fields, observability.F("tracking_number", tracking))
		}
		if err != nil {
			fields = append(fields, observability.Err(err))
		}
		logger.Info("use_case_done", fields...)

		if outcome == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		} else {
			span.SetStatus(codes.Ok, status)
		}
		span.End()
	}()

	o, err := w.orders.Get(ctx, evt.OrderID)
	if err != nil {
		outcome, status = "error", "ORDER_LOAD_FAILED"
		return fmt.Errorf("shipping worker: load order: %w", err)
	}

	// A redelivered request reuses the shipment already on record.
	existing, ferr := w.shipments.FindByOrderID(ctx, o.ID)
	switch {
	case ferr == nil:
		tracking = existing.TrackingNumber
	case !errors.Is(ferr, domshipping.ErrNotFound):
		outcome, status = "error", "SHIPMENT_LOAD_FAILED"
		return fmt.Errorf("shipping worker: load shipment: %w", ferr)
	default:
		tracking = w.ids.NewID()
		shipment := &domshipping.Shipment{
			ID:             w.ids.NewID(),
			OrderID:        o.ID,
			CustomerName:   evt.CustomerName,
			TrackingNumber: tracking,
			CreatedAt:      time.Now().UTC(),
		}
		if err = w.shipments.Save(ctx, shipment); err != nil {
			outcome, status = "error", "SHIPMENT_SAVE_FAILED"
			return fmt.Errorf("shipping worker: save shipment: %w", err)
		}
	}

	if err = o.MarkShipped(tracking); err != nil {
		outcome, status = "error", "STATE_TRANSITION_FAILED"
		return fmt.Errorf("shipping worker: mark shipped: %w", err)
	}
	if err = w.orders.Update(ctx, o); err != nil {
		outcome, status = "error", "ORDER_UPDATE_FAILED"
		return fmt.Errorf("shipping worker: update order: %w", err)
	}
	span.SetAttributes(attribute.String("shipping.tracking_number", tracking))

	// best effort: the shipment is already recorded
	if w.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if perr := w.publisher.Publish(pubCtx, domorder.NewShippedEvent(o)); perr != nil {
			span.RecordError(perr)
			status = "EVENT_PUBLISH_FAILED"
			logger.Warn("event_publish_failed",
				observability.F("event", domorder.ShippedEvent{}.EventName()),
				observability.Err(perr),
			)
		}
	}
	return nil
}

func (w *Worker) count(useCase, outcome string) {
	w.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
}

func (w *Worker) observe(useCase string, outcome string, latencySeconds float64) {
	w.count(useCase, outcome)
	w.durHistogram.Observe(latencySeconds, observability.L("use_case", useCase))
}
