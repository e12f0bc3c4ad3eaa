package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolCall(t *testing.T) {
	in, err := Parse(`{"tool": "list_events", "args": {"date_start": "today"}}`)
	require.NoError(t, err)
	assert.Equal(t, ToolListEvents, in.Tool)
	assert.Equal(t, "today", in.Args["date_start"])
	assert.False(t, in.IsQuestion())
}

func TestParseToolCallWithoutArgs(t *testing.T) {
	in, err := Parse(`{"tool": "list_events"}`)
	require.NoError(t, err)
	require.NotNil(t, in.Args)
	assert.Empty(t, in.Args)
}

func TestParseStripsMarkdownFences(t *testing.T) {
	in, err := Parse("```json\n{\"tool\": \"create_event\", \"args\": {\"summary\": \"Lunch\"}}\n```")
	require.NoError(t, err)
	assert.Equal(t, ToolCreateEvent, in.Tool)
	assert.Equal(t, "Lunch", in.Args["summary"])
}

func TestParseClarifyingQuestion(t *testing.T) {
	tests := []string{
		"Which meeting did you mean, the 1:1 or the standup?",
		"which event should I move",
		"Could you tell me the new start time?",
	}
	for _, output := range tests {
		in, err := Parse(output)
		require.NoError(t, err, output)
		assert.True(t, in.IsQuestion(), output)
		assert.Equal(t, output, in.Question)
	}
}

func TestParseUnusableOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"free text statement", "I moved the meeting for you."},
		{"empty", ""},
		{"unknown tool", `{"tool": "delete_event", "args": {}}`},
		{"truncated json", `{"tool": "list_ev`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.output)
			var ierr *InterpretationError
			require.ErrorAs(t, err, &ierr)
		})
	}
}

func TestEventID(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"absent", map[string]any{}, ""},
		{"real id", map[string]any{"event_id": "abc123"}, "abc123"},
		{"padded id", map[string]any{"event_id": " abc123 "}, "abc123"},
		{"angle placeholder", map[string]any{"event_id": "<id>"}, ""},
		{"literal id", map[string]any{"event_id": "id"}, ""},
		{"none string", map[string]any{"event_id": "None"}, ""},
		{"empty string", map[string]any{"event_id": "  "}, ""},
		{"next_meeting", map[string]any{"event_id": "next_meeting"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EventID(tt.args))
		})
	}
}

func TestTitleHintIsConsumed(t *testing.T) {
	args := map[string]any{
		"target_summary": " Meeting with Nicolas ",
		"start_datetime": "2025-11-26T17:00:00",
	}
	assert.Equal(t, "Meeting with Nicolas", TitleHint(args))
	_, still := args["target_summary"]
	assert.False(t, still, "target_summary must not leak to the backend")
	assert.Empty(t, TitleHint(args))
}

func TestNormalizeAttendees(t *testing.T) {
	t.Run("list joins to comma separated string", func(t *testing.T) {
		args := map[string]any{"attendees": []any{"a@example.com", "b@example.com"}}
		Normalize(args)
		assert.Equal(t, "a@example.com, b@example.com", args["attendees"])
	})

	t.Run("bare name is dropped", func(t *testing.T) {
		args := map[string]any{"attendees": "nicolas"}
		Normalize(args)
		_, ok := args["attendees"]
		assert.False(t, ok)
	})

	t.Run("address string passes through", func(t *testing.T) {
		args := map[string]any{"attendees": "nicolas@example.com"}
		Normalize(args)
		assert.Equal(t, "nicolas@example.com", args["attendees"])
	})

	t.Run("no attendees is a no-op", func(t *testing.T) {
		args := map[string]any{"summary": "Lunch"}
		Normalize(args)
		assert.Equal(t, map[string]any{"summary": "Lunch"}, args)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr bool
	}{
		{"list needs nothing", ToolListEvents, map[string]any{}, false},
		{
			"create with all fields",
			ToolCreateEvent,
			map[string]any{"summary": "Lunch", "start_datetime": "t1", "end_datetime": "t2"},
			false,
		},
		{"create missing end", ToolCreateEvent, map[string]any{"summary": "Lunch", "start_datetime": "t1"}, true},
		{"create blank summary", ToolCreateEvent, map[string]any{"summary": " ", "start_datetime": "t1", "end_datetime": "t2"}, true},
		{"update with one change", ToolUpdateEvent, map[string]any{"event_id": "e1", "start_datetime": "t1"}, false},
		{"update with nothing to change", ToolUpdateEvent, map[string]any{"event_id": "e1"}, true},
		{"unknown tool", "delete_event", map[string]any{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tool, tt.args)
			if tt.wantErr {
				var verr *InvalidArgumentsError
				require.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
