package shop

import (
	"context"
	"time"

	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const spanPrefix = "UC."

// run carries the RED bookkeeping of one use case invocation.
type run struct {
	useCase string
	start   time.Time
	span    trace.Span
	ctx     context.Context
	logger  observability.Logger
	req     observability.Counter
	dur     observability.Histogram

	outcome string
	status  string
	fields  []observability.Field
}

func (s *Shop) begin(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *run) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := s.tracer.Start(ctx, spanPrefix+spanName, attrs...)
	ctx, logger := logctx.Enrich(ctx, s.log, observability.F("use_case", useCase))
	return ctx, &run{
		useCase: useCase,
		start:   time.Now(),
		span:    span,
		ctx:     ctx,
		logger:  logger,
		req:     s.reqCounter,
		dur:     s.durHistogram,
		outcome: "success",
		status:  "OK",
	}
}

func (r *run) fail(status string) {
	r.outcome, r.status = "error", status
}

func (r *run) with(fields ...observability.Field) {
	r.fields = append(r.fields, fields...)
}

func (r *run) end(err error) {
	lat := time.Since(r.start).Seconds()

	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, r.status)
	} else {
		r.span.SetStatus(codes.Ok, r.status)
	}
	r.span.End()

	r.req.Add(1,
		observability.L("use_case", r.useCase),
		observability.L("outcome", r.outcome),
	)
	r.dur.Observe(lat, observability.L("use_case", r.useCase))

	fields := append([]observability.Field{
		observability.F("outcome", r.outcome),
		observability.F("status", r.status),
		observability.F("latency_seconds", lat),
	}, r.fields...)
	if sc := trace.SpanContextFromContext(r.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	if err != nil {
		fields = append(fields, observability.Err(err))
	}
	r.logger.Info("use_case_done", fields...)
}
