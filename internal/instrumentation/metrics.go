package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus  = "status"
	attrTool    = "tool"
	attrOutcome = "outcome"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder, used when instrumentation is disabled.
type Metrics struct {
	turnsTotal       metric.Int64Counter
	turnDuration     metric.Float64Histogram
	toolCallsTotal   metric.Int64Counter
	toolCallDuration metric.Float64Histogram
	resolutionsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.turnsTotal, err = meter.Int64Counter(
		"agent_turns_total",
		metric.WithDescription("Total number of conversational turns processed"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_turns_total counter: %w", err)
	}

	m.turnDuration, err = meter.Float64Histogram(
		"agent_turn_duration_seconds",
		metric.WithDescription("Turn processing duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_turn_duration_seconds histogram: %w", err)
	}

	m.toolCallsTotal, err = meter.Int64Counter(
		"mcp_tool_calls_total",
		metric.WithDescription("Total number of backend tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_calls_total counter: %w", err)
	}

	m.toolCallDuration, err = meter.Float64Histogram(
		"mcp_tool_call_duration_seconds",
		metric.WithDescription("Backend tool call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_call_duration_seconds histogram: %w", err)
	}

	m.resolutionsTotal, err = meter.Int64Counter(
		"agent_resolutions_total",
		metric.WithDescription("Total number of event resolution attempts by outcome"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_resolutions_total counter: %w", err)
	}

	return m, nil
}

// RecordTurn records one processed turn with its status and duration.
// Status should be "success" or "error".
func (m *Metrics) RecordTurn(ctx context.Context, status string, duration time.Duration) {
	if m.turnsTotal == nil || m.turnDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.turnsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.turnDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolCall records a backend tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolCall(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolCallsTotal == nil || m.toolCallDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordResolution records an event resolution attempt.
// Outcome should be one of: "resolved", "ambiguous", "not_found", "transport_error".
func (m *Metrics) RecordResolution(ctx context.Context, outcome string) {
	if m.resolutionsTotal == nil {
		return // Instrumentation not initialized
	}

	m.resolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
}
