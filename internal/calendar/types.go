package calendar

import (
	"context"
	"time"
)

// Event is one calendar entry as stored by a backend.
type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// EventInput carries the fields for creating an event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// EventPatch carries a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
}

// IsZero reports whether the patch changes nothing.
func (p EventPatch) IsZero() bool {
	return p.Summary == nil && p.Description == nil && p.Location == nil &&
		p.Start == nil && p.End == nil
}

// Backend is the storage boundary the MCP tool handlers dispatch to.
type Backend interface {
	// ListEvents returns events overlapping [start, end), ordered by start
	// time.
	ListEvents(ctx context.Context, start, end time.Time) ([]Event, error)

	// CreateEvent stores a new event and returns it with its assigned id.
	CreateEvent(ctx context.Context, input EventInput) (Event, error)

	// UpdateEvent applies a partial update to the event with the given id.
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (Event, error)
}
