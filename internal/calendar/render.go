package calendar

import (
	"fmt"
	"strings"
)

const clockLayout = "03:04 PM"

// RenderReport renders events as the text block the agent-side parser
// consumes. The line grammar (Event:, Event ID:, Time:) is a wire contract;
// changing it breaks every client that resolves update targets from the
// listing.
func RenderReport(events []Event) string {
	if len(events) == 0 {
		return "No events found for this range."
	}

	blocks := make([]string, 0, len(events))
	for _, event := range events {
		var b strings.Builder
		fmt.Fprintf(&b, "Event: %s\n", event.Summary)
		fmt.Fprintf(&b, "Event ID: %s\n", event.ID)
		if !event.Start.IsZero() && !event.End.IsZero() {
			fmt.Fprintf(&b, "Time: %s - %s\n", event.Start.Format(clockLayout), event.End.Format(clockLayout))
		}
		if event.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", event.Location)
		}
		if event.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", event.Description)
		}
		if len(event.Attendees) > 0 {
			fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(event.Attendees, ", "))
		}
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n")
}

// RenderEvent renders a single event as a confirmation block, used as the
// result of create and update calls.
func RenderEvent(action string, event Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s event.\n\n", action)
	fmt.Fprintf(&b, "Event: %s\n", event.Summary)
	fmt.Fprintf(&b, "Event ID: %s\n", event.ID)
	if !event.Start.IsZero() && !event.End.IsZero() {
		fmt.Fprintf(&b, "Time: %s - %s\n", event.Start.Format(clockLayout), event.End.Format(clockLayout))
	}
	if event.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", event.Location)
	}
	return b.String()
}
