// Package calendar_tools registers the calendar tools exposed over MCP:
// list_events, create_event, and update_event. Handlers accept natural date
// tokens ("today", "tomorrow") as well as ISO timestamps and render results
// in the line-oriented report format the agent side parses.
package calendar_tools
