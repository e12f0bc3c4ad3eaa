package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrEventNotFound is returned when an update targets an id that does not
// exist.
var ErrEventNotFound = errors.New("event not found")

// Store is a SQLite-backed calendar. It is the default backend so the agent
// works end to end without any external account.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the store location under the user config directory,
// creating the directory if needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "calagent")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	return filepath.Join(dir, "calendar.db"), nil
}

// OpenStore opens (and if necessary creates) the SQLite store at path. An
// empty path uses DefaultPath.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			summary TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			attendees TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start ON events (start_time)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateEvent stores a new event under a fresh opaque id.
func (s *Store) CreateEvent(ctx context.Context, input EventInput) (Event, error) {
	event := Event{
		ID:          uuid.NewString(),
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start:       input.Start,
		End:         input.End,
		Attendees:   input.Attendees,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, summary, description, location, start_time, end_time, attendees)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Summary, event.Description, event.Location,
		event.Start.UTC().Format(time.RFC3339),
		event.End.UTC().Format(time.RFC3339),
		strings.Join(event.Attendees, ", "),
	)
	if err != nil {
		return Event{}, fmt.Errorf("inserting event: %w", err)
	}

	return event, nil
}

// UpdateEvent applies patch to the stored event and returns the updated
// record. A missing id yields ErrEventNotFound.
func (s *Store) UpdateEvent(ctx context.Context, id string, patch EventPatch) (Event, error) {
	existing, err := s.getEvent(ctx, id)
	if err != nil {
		return Event{}, err
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
		existing.Start = *patch.Start
	}
	if patch.End != nil {
		existing.End = *patch.End
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE events SET summary = ?, description = ?, location = ?, start_time = ?, end_time = ?
		 WHERE id = ?`,
		existing.Summary, existing.Description, existing.Location,
		existing.Start.UTC().Format(time.RFC3339),
		existing.End.UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return Event{}, fmt.Errorf("updating event: %w", err)
	}

	return existing, nil
}

// ListEvents returns events overlapping [start, end), ordered by start
// time.
func (s *Store) ListEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, summary, description, location, start_time, end_time, attendees
		 FROM events
		 WHERE start_time < ? AND end_time > ?
		 ORDER BY start_time ASC`,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

func (s *Store) getEvent(ctx context.Context, id string) (Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, summary, description, location, start_time, end_time, attendees
		 FROM events WHERE id = ?`,
		id,
	)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return event, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var event Event
	var startText, endText, attendees string

	err := row.Scan(&event.ID, &event.Summary, &event.Description, &event.Location,
		&startText, &endText, &attendees)
	if err != nil {
		return Event{}, err
	}

	if event.Start, err = time.Parse(time.RFC3339, startText); err != nil {
		return Event{}, fmt.Errorf("parsing start time: %w", err)
	}
	if event.End, err = time.Parse(time.RFC3339, endText); err != nil {
		return Event{}, fmt.Errorf("parsing end time: %w", err)
	}
	if attendees != "" {
		event.Attendees = strings.Split(attendees, ", ")
	}

	return event, nil
}

var _ Backend = (*Store)(nil)
