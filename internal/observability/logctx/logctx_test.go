package logctx

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/stretchr/testify/assert"
)

type namedLogger struct {
	observability.Logger
	name string
}

func TestFromOrPrefersContextLogger(t *testing.T) {
	scoped := &namedLogger{Logger: observability.NopLogger(), name: "scoped"}
	fallback := &namedLogger{Logger: observability.NopLogger(), name: "fallback"}

	ctx := With(context.Background(), scoped)

	assert.Same(t, scoped, From(ctx))
	assert.Same(t, scoped, FromOr(ctx, fallback))
	assert.Same(t, fallback, FromOr(context.Background(), fallback))
}

func TestWithIgnoresNilLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, With(ctx, nil))
	assert.Nil(t, From(ctx))
}

type fieldLogger struct {
	observability.Logger
	fields []observability.Field
}

func (l *fieldLogger) With(fields ...observability.Field) observability.Logger {
	return &fieldLogger{Logger: l.Logger, fields: append(append([]observability.Field(nil), l.fields...), fields...)}
}

func TestEnrichStoresDerivedLogger(t *testing.T) {
	base := &fieldLogger{Logger: observability.NopLogger()}
	ctx := With(context.Background(), base.With(observability.F("request_id", "r-1")))

	ctx, logger := Enrich(ctx, nil, observability.F("use_case", "process_order"))

	assert.Same(t, logger, From(ctx))
	assert.Equal(t, []observability.Field{
		observability.F("request_id", "r-1"),
		observability.F("use_case", "process_order"),
	}, logger.(*fieldLogger).fields)
}

func TestEnrichWithoutAnyLogger(t *testing.T) {
	ctx, logger := Enrich(context.Background(), nil)
	assert.NotNil(t, logger)
	assert.NotNil(t, From(ctx))
}
