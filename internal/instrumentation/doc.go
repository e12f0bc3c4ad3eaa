// Package instrumentation provides OpenTelemetry tracing and metrics for the
// calendar agent.
//
// Every conversational turn produces a span tree: the turn span wraps the
// interpretation span, any resolution span (with its nested list_events tool
// call), and the final tool dispatch span. The same span names the original
// agent emitted are kept (turn, interpret, call_mcp, resolve) so existing
// trace dashboards keep working.
//
// Configuration is environment-driven (see Config / DefaultConfig). Exporters:
// OTLP over HTTP for collectors, stdout for development, or none. Metrics use
// the OTLP or stdout exporters; there is no metrics HTTP endpoint because the
// agent is a stdio process with no listening surface.
package instrumentation
