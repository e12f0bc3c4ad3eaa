package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"calagent/internal/calendar"
	"calagent/internal/dates"
	"calagent/internal/server"
	"calagent/internal/tools/common"
)

// RegisterCalendarTools registers the calendar tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("list_events",
		mcp.WithDescription("List calendar events within a date range"),
		mcp.WithString("date_start",
			mcp.Required(),
			mcp.Description("Start of the range: 'today', 'tomorrow', or an ISO date like '2025-11-26'"),
		),
		mcp.WithString("date_end",
			mcp.Description("End of the range (inclusive). Defaults to date_start."),
		),
	)
	s.AddTool(listEventsTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler("list_events", nil, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, request, sc)
	})))

	createEventTool := mcp.NewTool("create_event",
		mcp.WithDescription("Create a new calendar event"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start_datetime",
			mcp.Required(),
			mcp.Description("Start time (ISO format, e.g. '2025-11-26T16:00:00Z')"),
		),
		mcp.WithString("end_datetime",
			mcp.Required(),
			mcp.Description("End time (ISO format)"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated attendee email addresses"),
		),
	)
	s.AddTool(createEventTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler("create_event", nil, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateEvent(ctx, request, sc)
	})))

	updateEventTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update an existing calendar event"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("start_datetime",
			mcp.Description("New start time (ISO format)"),
		),
		mcp.WithString("end_datetime",
			mcp.Description("New end time (ISO format)"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
	)
	s.AddTool(updateEventTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler("update_event", nil, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdateEvent(ctx, request, sc)
	})))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	startStr, ok := args["date_start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("date_start is required"), nil
	}
	start, err := dates.Day(startStr, sc.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date_start: %v", err)), nil
	}

	end := start
	if endStr, ok := args["date_end"].(string); ok && endStr != "" {
		end, err = dates.Day(endStr, sc.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid date_end: %v", err)), nil
		}
	}

	events, err := sc.Backend().ListEvents(ctx, start, dates.EndOfDay(end))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	return mcp.NewToolResultText(calendar.RenderReport(events)), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	input := calendar.EventInput{
		Summary:     stringArg(args, "summary"),
		Description: stringArg(args, "description"),
		Location:    stringArg(args, "location"),
	}
	if input.Summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	var err error
	input.Start, err = parseDateTimeArg(args, "start_datetime", sc.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input.End, err = parseDateTimeArg(args, "end_datetime", sc.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if attendees := stringArg(args, "attendees"); attendees != "" {
		for _, email := range strings.Split(attendees, ",") {
			input.Attendees = append(input.Attendees, strings.TrimSpace(email))
		}
	}

	created, err := sc.Backend().CreateEvent(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	return mcp.NewToolResultText(calendar.RenderEvent("Created", created)), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID := stringArg(args, "event_id")
	if eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	var patch calendar.EventPatch
	if summary := stringArg(args, "summary"); summary != "" {
		patch.Summary = &summary
	}
	if description := stringArg(args, "description"); description != "" {
		patch.Description = &description
	}
	if location := stringArg(args, "location"); location != "" {
		patch.Location = &location
	}
	if raw := stringArg(args, "start_datetime"); raw != "" {
		start, err := dates.DateTime(raw, sc.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid start_datetime: %v", err)), nil
		}
		patch.Start = &start
	}
	if raw := stringArg(args, "end_datetime"); raw != "" {
		end, err := dates.DateTime(raw, sc.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end_datetime: %v", err)), nil
		}
		patch.End = &end
	}

	if patch.IsZero() {
		return mcp.NewToolResultError("no fields to update"), nil
	}

	updated, err := sc.Backend().UpdateEvent(ctx, eventID, patch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
	}

	return mcp.NewToolResultText(calendar.RenderEvent("Updated", updated)), nil
}

func stringArg(args map[string]any, key string) string {
	if val, ok := args[key].(string); ok {
		return strings.TrimSpace(val)
	}
	return ""
}

func parseDateTimeArg(args map[string]any, key string, now time.Time) (time.Time, error) {
	raw := stringArg(args, key)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	t, err := dates.DateTime(raw, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", key, err)
	}
	return t, nil
}
