package dates

import (
	"fmt"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// ISODate is the wire format for date arguments.
const ISODate = "2006-01-02"

// Day resolves a date token to midnight of the referenced day in now's
// location. Accepted forms: "today" (also the empty token), "tomorrow",
// an ISO-8601 date, or a natural-language expression like "next monday".
func Day(token string, now time.Time) (time.Time, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	switch token {
	case "", "today":
		return midnight(now), nil
	case "tomorrow":
		return midnight(now).AddDate(0, 0, 1), nil
	}

	if t, err := time.ParseInLocation(ISODate, token, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, token); err == nil {
		return midnight(t.In(now.Location())), nil
	}

	t, err := naturaldate.Parse(token, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", token, err)
	}
	return midnight(t), nil
}

// DateTime resolves a datetime token: RFC3339, an ISO date (midnight), or a
// natural-language expression like "tomorrow 3pm".
func DateTime(token string, now time.Time) (time.Time, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	if t, err := time.Parse(time.RFC3339, token); err == nil {
		return t, nil
	}
	// Zone-less timestamps are common in model output; read them in the
	// local location.
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", token, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(ISODate, token, now.Location()); err == nil {
		return t, nil
	}

	t, err := naturaldate.Parse(token, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized datetime %q: %w", token, err)
	}
	return t, nil
}

// ResolutionWindow picks the candidate-fetch window for an update whose
// target event is unknown. An utterance mentioning "tomorrow" narrows the
// window to that single day; everything else searches from today one week
// out, which covers "my 3pm meeting" as well as "the meeting on friday".
func ResolutionWindow(utterance string, now time.Time) (start, end time.Time) {
	if strings.Contains(strings.ToLower(utterance), "tomorrow") {
		start = midnight(now).AddDate(0, 0, 1)
		return start, start
	}
	start = midnight(now)
	return start, start.AddDate(0, 0, 7)
}

// EndOfDay returns the last instant of the day containing t, for building
// inclusive date-range queries.
func EndOfDay(t time.Time) time.Time {
	return midnight(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
