package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.opentelemetry.io/otel/attribute"

	"calagent/internal/instrumentation"
	"calagent/internal/logging"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You are a calendar assistant. ` +
	`Understand natural language and decide which calendar operation is needed ` +
	`(list events, create event, update event). ` +
	`Extract all relevant details (dates, times, title, attendees). ` +
	`Respond ONLY with valid JSON of the form {"tool": ..., "args": {...}}. ` +
	`Do NOT write sentences, explanations, or comments. ` +
	`If you do NOT know the event_id, you MUST leave the event_id field out entirely. ` +
	`NEVER invent or guess an event_id. ` +
	`NEVER use placeholders such as <id>, next_meeting, id, or similar. ` +
	`When the user refers to an existing event by name, put that name in "target_summary"; ` +
	`on update_event the "summary" field means the NEW title, never the current one. ` +
	`Valid example: {"tool": "list_events", "args": {"date_start": "today"}} ` +
	`Valid example: {"tool": "create_event", "args": {"summary": "Meeting with Nicolas", "start_datetime": "2025-11-26T16:00:00", "end_datetime": "2025-11-26T17:00:00"}} ` +
	`Valid example: {"tool": "update_event", "args": {"target_summary": "Meeting with Nicolas", "start_datetime": "2025-11-26T17:00:00", "end_datetime": "2025-11-26T18:00:00"}} ` +
	`Invalid example (because event_id is unknown): {"tool": "update_event", "args": {"event_id": "<id>", ...}} ` +
	`If the user wants to move, change, shift, or reschedule a meeting, you MUST choose the update_event tool.`

// Interpreter maps an utterance plus conversation history to an Intent.
type Interpreter interface {
	Interpret(ctx context.Context, utterance string, history []string) (Intent, error)
}

// OpenAIInterpreter implements Interpreter on the OpenAI chat completions
// API.
type OpenAIInterpreter struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIInterpreter builds an interpreter for the given model. An empty
// model falls back to DefaultModel; a nil logger to slog.Default().
func NewOpenAIInterpreter(apiKey, model string, logger *slog.Logger) *OpenAIInterpreter {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIInterpreter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logging.WithOperation(logger, "interpret"),
	}
}

// Interpret sends the utterance to the model and parses its answer. History
// entries are replayed as prior user turns so a clarifying reply like
// "the one with Nicolas, move it to 5pm" still carries the original request's
// context. Transport failures surface as InterpretationError.
func (i *OpenAIInterpreter) Interpret(ctx context.Context, utterance string, history []string) (Intent, error) {
	ctx, span := instrumentation.StartSpan(ctx, "interpret_nl",
		attribute.String(instrumentation.SpanAttrUtterance, logging.Truncate(utterance, 200)),
	)
	defer span.End()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, turn := range history {
		messages = append(messages, openai.UserMessage(turn))
	}
	messages = append(messages, openai.UserMessage(utterance))

	resp, err := i.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(i.model),
		Messages: messages,
	})
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return Intent{}, &InterpretationError{Err: fmt.Errorf("chat completion: %w", err)}
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("chat completion returned no choices")
		instrumentation.SetSpanError(span, err)
		return Intent{}, &InterpretationError{Err: err}
	}

	output := resp.Choices[0].Message.Content
	parsed, err := Parse(output)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return Intent{}, err
	}

	if parsed.IsQuestion() {
		span.SetAttributes(attribute.String(instrumentation.SpanAttrResolvedTool, "clarifying_question"))
	} else {
		span.SetAttributes(attribute.String(instrumentation.SpanAttrResolvedTool, parsed.Tool))
		i.logger.Debug("utterance interpreted",
			slog.String("tool", parsed.Tool),
			slog.Int("arg_count", len(parsed.Args)),
		)
	}
	instrumentation.SetSpanSuccess(span)
	return parsed, nil
}

var _ Interpreter = (*OpenAIInterpreter)(nil)

// FormatHistoryEntry renders one finished turn for the history replayed to
// the model on later turns.
func FormatHistoryEntry(utterance, outcome string) string {
	return strings.TrimSpace(utterance) + " -> " + strings.TrimSpace(outcome)
}
