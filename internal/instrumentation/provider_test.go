package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	ctx := context.Background()

	config := DefaultConfig()
	config.Enabled = false

	provider, err := NewProvider(ctx, config)
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics())
	assert.NotNil(t, provider.Tracer("test"))

	// Shutdown of a disabled provider is a no-op.
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestNewProviderNoneExporters(t *testing.T) {
	ctx := context.Background()

	config := Config{
		ServiceName:       "calagent-test",
		ServiceVersion:    "test",
		Enabled:           true,
		TracingExporter:   ExporterNone,
		MetricsExporter:   ExporterNone,
		TraceSamplingRate: 1.0,
	}

	provider, err := NewProvider(ctx, config)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(ctx))
	}()

	assert.True(t, provider.Enabled())

	// Spans and metrics must be recordable even with no exporter configured.
	_, span := StartTurnSpan(ctx, "list my events")
	span.End()

	provider.Metrics().RecordTurn(ctx, StatusSuccess, 120*time.Millisecond)
	provider.Metrics().RecordToolCall(ctx, "list_events", StatusSuccess, 80*time.Millisecond)
	provider.Metrics().RecordResolution(ctx, "ambiguous")
}

func TestNewProviderRejectsOTLPWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	config := Config{
		ServiceName:       "calagent-test",
		Enabled:           true,
		TracingExporter:   ExporterOTLP,
		MetricsExporter:   ExporterNone,
		TraceSamplingRate: 1.0,
	}

	_, err := NewProvider(ctx, config)
	assert.ErrorContains(t, err, "OTLP endpoint")
}

func TestMetricsZeroValueIsNoOp(t *testing.T) {
	var m Metrics

	// Must not panic when instruments were never created.
	m.RecordTurn(context.Background(), StatusError, time.Second)
	m.RecordToolCall(context.Background(), "update_event", StatusError, time.Second)
	m.RecordResolution(context.Background(), "not_found")
}

func TestSpanHelpers(t *testing.T) {
	ctx := context.Background()

	ctx, span := StartToolSpan(ctx, "list_events")
	SetSpanSuccess(span)
	span.End()

	// Without an SDK tracer provider installed the span is non-recording
	// and the trace ID is invalid.
	assert.Equal(t, "", GetTraceID(context.Background()))
	_ = ctx
}
