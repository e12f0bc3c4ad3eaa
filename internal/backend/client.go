package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"calagent/internal/instrumentation"
	"calagent/internal/logging"
)

// DefaultTimeout bounds one full invoke cycle, subprocess launch included.
const DefaultTimeout = 60 * time.Second

// RawResult is the unparsed outcome of one tool call: the text block the
// server rendered plus whether the server flagged it as an error.
type RawResult struct {
	Text    string
	IsError bool
}

// TransportError wraps any failure between deciding to call a tool and
// receiving its result. No calendar mutation can be assumed to have
// happened when one is returned.
type TransportError struct {
	Tool string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling backend tool %s: %v", e.Tool, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Invoker is the tool-invocation boundary the agent depends on.
type Invoker interface {
	Invoke(ctx context.Context, tool string, args map[string]any) (RawResult, error)
}

// Client launches an MCP calendar server per call.
type Client struct {
	command string
	args    []string
	env     []string
	timeout time.Duration
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-invocation deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithEnv passes extra environment entries ("KEY=value") to the server
// subprocess.
func WithEnv(env []string) Option {
	return func(c *Client) { c.env = env }
}

// WithMetrics records per-call counters and latency.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a Client that launches command with args for every
// invocation. A nil logger falls back to slog.Default().
func NewClient(command string, args []string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		command: command,
		args:    args,
		timeout: DefaultTimeout,
		logger:  logging.WithOperation(logger, "invoke"),
		metrics: &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke runs one request/response exchange: launch the server, initialize
// the session, call the tool, close everything. Any failure along the way
// comes back as a TransportError.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]any) (RawResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := instrumentation.StartToolSpan(ctx, tool,
		attribute.String(instrumentation.SpanAttrArgsPreview, previewArgs(args)),
	)
	defer span.End()

	start := time.Now()
	result, err := c.invoke(ctx, tool, args)
	status := "success"
	if err != nil || result.IsError {
		status = "error"
	}
	c.metrics.RecordToolCall(ctx, tool, status, time.Since(start))

	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.logger.Error("backend call failed", logging.Tool(tool), logging.Err(err))
		return RawResult{}, &TransportError{Tool: tool, Err: err}
	}

	span.SetAttributes(attribute.String(instrumentation.SpanAttrResultPreview, logging.Truncate(result.Text, 200)))
	instrumentation.SetSpanSuccess(span)
	c.logger.Debug("backend call finished",
		logging.Tool(tool),
		slog.Bool("is_error", result.IsError),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (c *Client) invoke(ctx context.Context, tool string, args map[string]any) (RawResult, error) {
	mcpClient, err := client.NewStdioMCPClient(c.command, c.env, c.args...)
	if err != nil {
		return RawResult{}, fmt.Errorf("launching server: %w", err)
	}
	defer mcpClient.Close()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "calagent",
		Version: "1.0.0",
	}
	if _, err := mcpClient.Initialize(ctx, initRequest); err != nil {
		return RawResult{}, fmt.Errorf("initializing session: %w", err)
	}

	callRequest := mcp.CallToolRequest{}
	callRequest.Params.Name = tool
	callRequest.Params.Arguments = args

	result, err := mcpClient.CallTool(ctx, callRequest)
	if err != nil {
		return RawResult{}, fmt.Errorf("calling tool: %w", err)
	}

	return RawResult{Text: flattenContent(result.Content), IsError: result.IsError}, nil
}

// flattenContent joins all text content blocks; non-text blocks are
// skipped.
func flattenContent(content []mcp.Content) string {
	var text string
	for _, block := range content {
		if tc, ok := mcp.AsTextContent(block); ok {
			if text != "" {
				text += "\n"
			}
			text += tc.Text
		}
	}
	return text
}

func previewArgs(args map[string]any) string {
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%d args", len(args))
	}
	return logging.Truncate(string(encoded), 200)
}

var _ Invoker = (*Client)(nil)
