package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the calagent package.
const TracerName = "calagent"

// Span attribute keys for agent operations.
const (
	// SpanAttrTool is the backend tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrArgsPreview is a truncated JSON preview of the tool arguments.
	SpanAttrArgsPreview = "mcp.args_preview"

	// SpanAttrResultPreview is a truncated preview of the tool result text.
	SpanAttrResultPreview = "mcp.result_preview"

	// SpanAttrUtterance is a truncated preview of the user utterance.
	SpanAttrUtterance = "agent.utterance"

	// SpanAttrResolvedTool is the tool chosen by interpretation.
	SpanAttrResolvedTool = "agent.resolved_tool"

	// SpanAttrOutcome is the resolution outcome (resolved, ambiguous, not_found, transport_error).
	SpanAttrOutcome = "agent.resolution_outcome"

	// SpanAttrCandidates is the number of resolution candidates considered.
	SpanAttrCandidates = "agent.resolution_candidates"

	// SpanAttrStatus is the turn status attribute.
	SpanAttrStatus = "agent.status"
)

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartTurnSpan starts the root span for one conversational turn.
func StartTurnSpan(ctx context.Context, utterance string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "turn",
		trace.WithAttributes(attribute.String(SpanAttrUtterance, utterance)),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartToolSpan starts a span for a backend tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "call_mcp",
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
