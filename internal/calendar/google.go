package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"calagent/internal/google"
)

// GoogleBackend serves events from a Google Calendar. It needs a stored
// OAuth token; run the auth flow first when none exists.
type GoogleBackend struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleBackend builds a backend against the user's primary calendar.
func NewGoogleBackend(ctx context.Context) (*GoogleBackend, error) {
	client, err := google.GetHTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &GoogleBackend{svc: svc, calendarID: "primary"}, nil
}

// ListEvents returns events overlapping [start, end), ordered by start
// time.
func (g *GoogleBackend) ListEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	result, err := g.svc.Events.List(g.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, fromGoogleEvent(item))
	}
	return events, nil
}

// CreateEvent inserts a new event into the calendar.
func (g *GoogleBackend) CreateEvent(ctx context.Context, input EventInput) (Event, error) {
	event := &gcal.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start:       &gcal.EventDateTime{DateTime: input.Start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: input.End.Format(time.RFC3339), TimeZone: "UTC"},
	}
	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("creating event: %w", err)
	}
	return fromGoogleEvent(created), nil
}

// UpdateEvent patches the stored event. Google requires a read-modify-write
// cycle so unset fields survive.
func (g *GoogleBackend) UpdateEvent(ctx context.Context, id string, patch EventPatch) (Event, error) {
	existing, err := g.svc.Events.Get(g.calendarID, id).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	if patch.Summary != nil {
		existing.Summary = *patch.Summary
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Location != nil {
		existing.Location = *patch.Location
	}
	if patch.Start != nil {
		existing.Start = &gcal.EventDateTime{DateTime: patch.Start.Format(time.RFC3339), TimeZone: "UTC"}
	}
	if patch.End != nil {
		existing.End = &gcal.EventDateTime{DateTime: patch.End.Format(time.RFC3339), TimeZone: "UTC"}
	}

	updated, err := g.svc.Events.Update(g.calendarID, id, existing).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("updating event: %w", err)
	}
	return fromGoogleEvent(updated), nil
}

func fromGoogleEvent(item *gcal.Event) Event {
	event := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
	}
	event.Start = parseGoogleTime(item.Start)
	event.End = parseGoogleTime(item.End)
	for _, attendee := range item.Attendees {
		event.Attendees = append(event.Attendees, attendee.Email)
	}
	return event
}

func parseGoogleTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

var _ Backend = (*GoogleBackend)(nil)
