package resolve

import (
	"strings"
	"time"
)

// CandidateEvent is one calendar entry extracted from a backend report.
// Start and End stay zero when the report block had no parseable Time line.
type CandidateEvent struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
	Raw   string
}

// Report line prefixes. This grammar is owned by the backend; the parser
// pins it deliberately and tests assert on the exact spelling.
const (
	prefixEvent   = "Event:"
	prefixEventID = "Event ID:"
	prefixTime    = "Time:"
)

// clockLayout matches the 12-hour clock format used in report Time lines,
// e.g. "04:00 PM".
const clockLayout = "03:04 PM"

// ParseReport converts a list_events text report into candidate events.
//
// The report is a sequence of blocks separated by blank lines. Each block
// carries "Event:", "Event ID:" and optionally "Time:" lines; Location,
// Description and Attendees lines are ignored. A block missing either the
// title or the id is dropped entirely rather than emitted half-filled. A
// malformed Time line only loses that block's times. Candidates come back
// in source order; empty input yields an empty (nil) slice.
//
// windowDate supplies the calendar day the clock-only Time line is relative
// to.
func ParseReport(report string, windowDate time.Time) []CandidateEvent {
	var (
		candidates []CandidateEvent
		block      blockState
	)

	for _, line := range strings.Split(report, "\n") {
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			if c, ok := block.flush(windowDate); ok {
				candidates = append(candidates, c)
			}
			block = blockState{}
			continue
		}

		block.lines = append(block.lines, stripped)

		switch {
		case strings.HasPrefix(stripped, prefixEventID):
			block.id = strings.TrimSpace(strings.TrimPrefix(stripped, prefixEventID))
		case strings.HasPrefix(stripped, prefixEvent):
			block.title = strings.TrimSpace(strings.TrimPrefix(stripped, prefixEvent))
		case strings.HasPrefix(stripped, prefixTime):
			block.timeText = strings.TrimSpace(strings.TrimPrefix(stripped, prefixTime))
		}
	}

	if c, ok := block.flush(windowDate); ok {
		candidates = append(candidates, c)
	}

	return candidates
}

// blockState accumulates one report block until a blank line flushes it.
type blockState struct {
	title    string
	id       string
	timeText string
	lines    []string
}

func (b *blockState) flush(windowDate time.Time) (CandidateEvent, bool) {
	// Title and id are both required; a block lacking either is dropped.
	if b.title == "" || b.id == "" {
		return CandidateEvent{}, false
	}

	c := CandidateEvent{
		ID:    b.id,
		Title: b.title,
		Raw:   strings.Join(b.lines, "\n"),
	}

	// Fail-soft on the time range: a malformed Time line leaves the
	// candidate without times instead of discarding it.
	if start, end, ok := parseTimeRange(b.timeText, windowDate); ok {
		c.Start = start
		c.End = end
	}

	return c, true
}

// parseTimeRange parses "04:00 PM - 05:00 PM" against the window date.
func parseTimeRange(text string, windowDate time.Time) (start, end time.Time, ok bool) {
	if text == "" {
		return time.Time{}, time.Time{}, false
	}

	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}

	start, ok = parseClock(parts[0], windowDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = parseClock(parts[1], windowDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseClock(text string, windowDate time.Time) (time.Time, bool) {
	clock, err := time.Parse(clockLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		windowDate.Year(), windowDate.Month(), windowDate.Day(),
		clock.Hour(), clock.Minute(), 0, 0, windowDate.Location(),
	), true
}
