package intent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tool names understood by the calendar backend.
const (
	ToolListEvents  = "list_events"
	ToolCreateEvent = "create_event"
	ToolUpdateEvent = "update_event"
)

// Intent is the structured decision derived from one utterance. Either Tool
// and Args are set, or Question carries a clarifying question the model
// chose to ask instead of committing to a tool call.
type Intent struct {
	Tool     string
	Args     map[string]any
	Question string
}

// IsQuestion reports whether the model asked for clarification instead of
// returning a tool call.
func (in Intent) IsQuestion() bool {
	return in.Question != ""
}

// InterpretationError means the language boundary returned neither a valid
// tool call nor something recognizable as a clarifying question. The turn
// fails; session state is left untouched.
type InterpretationError struct {
	Output string
	Err    error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interpreting utterance: %v", e.Err)
	}
	return fmt.Sprintf("interpreter returned unusable output: %q", truncate(e.Output, 120))
}

func (e *InterpretationError) Unwrap() error { return e.Err }

// InvalidArgumentsError means a tool call is missing required fields. It is
// raised before any backend call so no partial mutation can happen.
type InvalidArgumentsError struct {
	Tool   string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

type rawIntent struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// Parse interprets the raw model output. Valid JSON with a known tool name
// becomes a tool-call Intent. Output that is not JSON but reads like a
// question becomes a clarification Intent. Anything else is an
// InterpretationError.
func Parse(output string) (Intent, error) {
	text := stripFences(strings.TrimSpace(output))
	if text == "" {
		return Intent{}, &InterpretationError{Output: output}
	}

	var raw rawIntent
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		if looksLikeQuestion(text) {
			return Intent{Question: text}, nil
		}
		return Intent{}, &InterpretationError{Output: output, Err: err}
	}

	switch raw.Tool {
	case ToolListEvents, ToolCreateEvent, ToolUpdateEvent:
	default:
		return Intent{}, &InterpretationError{Output: output, Err: fmt.Errorf("unknown tool %q", raw.Tool)}
	}
	if raw.Args == nil {
		raw.Args = map[string]any{}
	}
	return Intent{Tool: raw.Tool, Args: raw.Args}, nil
}

// stripFences removes a markdown code fence around the payload. Models wrap
// JSON in ```json blocks no matter how firmly the prompt forbids it.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func looksLikeQuestion(s string) bool {
	if strings.HasSuffix(strings.TrimSpace(s), "?") {
		return true
	}
	lower := strings.ToLower(s)
	for _, prefix := range []string{"which ", "what ", "when ", "who ", "do you ", "did you ", "could you ", "can you ", "please "} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// placeholder ids the model emits when it does not actually know the target.
var placeholderIDs = map[string]struct{}{
	"":             {},
	"<id>":         {},
	"id":           {},
	"none":         {},
	"next_meeting": {},
}

// EventID returns the event_id argument, or "" when it is absent or a
// placeholder. A placeholder must never reach the backend.
func EventID(args map[string]any) string {
	raw, ok := args["event_id"]
	if !ok {
		return ""
	}
	id := strings.TrimSpace(fmt.Sprint(raw))
	if _, isPlaceholder := placeholderIDs[strings.ToLower(id)]; isPlaceholder {
		return ""
	}
	return id
}

// TitleHint removes and returns the target_summary argument, the model's
// best guess at the title of the event an update refers to. It is consumed
// by resolution and must not be forwarded to the backend.
func TitleHint(args map[string]any) string {
	raw, ok := args["target_summary"]
	if !ok {
		return ""
	}
	delete(args, "target_summary")
	return strings.TrimSpace(fmt.Sprint(raw))
}

// Normalize fixes up argument shapes in place. Attendee lists are joined
// into the comma-separated string the backend expects; a single attendee
// string that is not an address is dropped rather than passed through.
func Normalize(args map[string]any) {
	raw, ok := args["attendees"]
	if !ok {
		return
	}
	switch att := raw.(type) {
	case []any:
		parts := make([]string, 0, len(att))
		for _, a := range att {
			parts = append(parts, strings.TrimSpace(fmt.Sprint(a)))
		}
		args["attendees"] = strings.Join(parts, ", ")
	case string:
		if !strings.Contains(att, "@") {
			delete(args, "attendees")
		}
	}
}

// Validate checks that a tool call carries what the backend requires.
func Validate(tool string, args map[string]any) error {
	switch tool {
	case ToolListEvents:
		return nil
	case ToolCreateEvent:
		for _, field := range []string{"summary", "start_datetime", "end_datetime"} {
			if !hasString(args, field) {
				return &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("missing required field %q", field)}
			}
		}
		return nil
	case ToolUpdateEvent:
		for _, field := range []string{"summary", "start_datetime", "end_datetime", "description", "location"} {
			if hasString(args, field) {
				return nil
			}
		}
		return &InvalidArgumentsError{Tool: tool, Reason: "no fields to change"}
	default:
		return &InvalidArgumentsError{Tool: tool, Reason: "unknown tool"}
	}
}

func hasString(args map[string]any, field string) bool {
	raw, ok := args[field]
	if !ok {
		return false
	}
	return strings.TrimSpace(fmt.Sprint(raw)) != ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
