package workerpresentation

import (
	"context"
	"sort"

	domoutbox "github.com/Zhima-Mochi/jewelshop/internal/domain/outbox"
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const spanPrefix = "Event."

// WithEventContext injects a request-scoped logger for background/worker executions.
// Dynamic fields only: trace_id/span_id (if valid), event_id (generated if empty),
// plus caller-provided low-cardinality attributes (e.g. "use_case", "event", "tenant_id").
func WithEventContext(
	ctx context.Context,
	base observability.Logger,
	tel observability.Observability,
	traceID trace.TraceID,
	spanID trace.SpanID,
	attrs map[string]string, // keep this low-cardinality: event name, tenant, shard, queue, etc.
) context.Context {
	if base == nil {
		base = tel.Logger()
	}

	fields := make([]observability.Field, 0, 6)

	evtID := attrs["event_id"]
	if evtID == "" {
		evtID = uuid.NewString()
	}
	fields = append(fields, observability.F("event_id", evtID))

	if traceID.IsValid() {
		fields = append(fields, observability.F("trace_id", traceID.String()))
	}
	if spanID.IsValid() {
		fields = append(fields, observability.F("span_id", spanID.String()))
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "event_id" || attrs[k] == "" {
			continue
		}
		fields = append(fields, observability.F(k, attrs[k]))
	}

	return logctx.With(ctx, base.With(fields...))
}

// Instrument wraps a bus handler with a consumer span and an event-scoped logger.
func Instrument(tel observability.Observability, worker string, h domoutbox.Handler) domoutbox.Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	tracer := tel.Tracer()

	return func(ctx context.Context, e domoutbox.Event) error {
		name := e.EventName()
		ctx, span := tracer.Start(ctx, spanPrefix+name,
			attribute.String("event", name),
			attribute.String("worker", worker),
		)
		defer span.End()

		sc := span.SpanContext()
		ctx = WithEventContext(ctx, logctx.From(ctx), tel, sc.TraceID(), sc.SpanID(), map[string]string{
			"event":  name,
			"worker": worker,
		})
		err := h(ctx, e)
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
}

// Register subscribes every handler, instrumented, on sub.
func Register(sub domoutbox.Subscriber, tel observability.Observability, worker string, handlers map[string]domoutbox.Handler) {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sub.Subscribe(name, Instrument(tel, worker, handlers[name]))
	}
}
