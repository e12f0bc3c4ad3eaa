package calendar_tools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calagent/internal/calendar"
	"calagent/internal/server"
)

var testNow = time.Date(2025, 11, 26, 15, 30, 0, 0, time.UTC)

func testContext(t *testing.T) *server.ServerContext {
	t.Helper()

	store, err := calendar.OpenStore(filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sc := server.NewServerContext(context.Background(), store)
	sc.SetNow(func() time.Time { return testNow })
	t.Cleanup(sc.Shutdown)
	return sc
}

func callRequest(tool string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      tool,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	sc := testContext(t)
	mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	require.NoError(t, RegisterCalendarTools(mcpSrv, sc))
}

func TestHandleCreateThenListEvents(t *testing.T) {
	sc := testContext(t)
	ctx := context.Background()

	created, err := handleCreateEvent(ctx, callRequest("create_event", map[string]any{
		"summary":        "Meeting with Nicolas",
		"start_datetime": "2025-11-26T16:00:00Z",
		"end_datetime":   "2025-11-26T17:00:00Z",
	}), sc)
	require.NoError(t, err)
	require.False(t, created.IsError)
	assert.Contains(t, resultText(t, created), "Created event.")

	listed, err := handleListEvents(ctx, callRequest("list_events", map[string]any{
		"date_start": "today",
	}), sc)
	require.NoError(t, err)
	require.False(t, listed.IsError)

	report := resultText(t, listed)
	assert.Contains(t, report, "Event: Meeting with Nicolas")
	assert.Contains(t, report, "Event ID: ")
	assert.Contains(t, report, "Time: 04:00 PM - 05:00 PM")
}

func TestHandleListEventsEmptyRange(t *testing.T) {
	sc := testContext(t)

	result, err := handleListEvents(context.Background(), callRequest("list_events", map[string]any{
		"date_start": "tomorrow",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "No events found for this range.", resultText(t, result))
}

func TestHandleListEventsValidation(t *testing.T) {
	sc := testContext(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing date_start", map[string]any{}},
		{"unparseable date_start", map[string]any{"date_start": "the day after the offsite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleListEvents(context.Background(), callRequest("list_events", tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleCreateEventValidation(t *testing.T) {
	sc := testContext(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing summary", map[string]any{"start_datetime": "2025-11-26T16:00:00Z", "end_datetime": "2025-11-26T17:00:00Z"}},
		{"missing end", map[string]any{"summary": "Lunch", "start_datetime": "2025-11-26T16:00:00Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleCreateEvent(context.Background(), callRequest("create_event", tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleUpdateEvent(t *testing.T) {
	sc := testContext(t)
	ctx := context.Background()

	event, err := sc.Backend().CreateEvent(ctx, calendar.EventInput{
		Summary: "Meeting with Nicolas",
		Start:   time.Date(2025, 11, 26, 16, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 11, 26, 17, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result, err := handleUpdateEvent(ctx, callRequest("update_event", map[string]any{
		"event_id":       event.ID,
		"start_datetime": "2025-11-26T17:00:00Z",
		"end_datetime":   "2025-11-26T18:00:00Z",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Time: 05:00 PM - 06:00 PM")
}

func TestHandleUpdateEventErrors(t *testing.T) {
	sc := testContext(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing event_id", map[string]any{"summary": "New title"}},
		{"nothing to change", map[string]any{"event_id": "abc123"}},
		{"unknown event", map[string]any{"event_id": "missing", "summary": "New title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleUpdateEvent(context.Background(), callRequest("update_event", tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}
