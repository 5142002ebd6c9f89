package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerCarriesFixedAndScopedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core), observability.F("service", "shop"))

	log.With(observability.F("use_case", "shop.process_order")).
		Info("use_case_done", observability.F("outcome", "success"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "use_case_done", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "shop", fields["service"])
	assert.Equal(t, "shop.process_order", fields["use_case"])
	assert.Equal(t, "success", fields["outcome"])
}

func TestLoggerEncodesErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.Error("payment_error", observability.F("error", errors.New("card declined")))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "card declined", logs.All()[0].ContextMap()["error"])
}

func TestNewWithNilBaseDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).Warn("nothing")
	})
}

func TestAdapterExposesOnlyThePort(t *testing.T) {
	var log any = New(nil)

	_, flushable := log.(interface{ Sync() error })
	assert.False(t, flushable, "flushing belongs to the base *zap.Logger owned by main")
}
