package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowDate = time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC)

const sampleReport = `Event: Meeting with Nicolas
Event ID: abc123
Time: 04:00 PM - 05:00 PM

Event: Standup
Event ID: xyz789
Time: 09:00 AM - 09:15 AM
`

func TestParseReport(t *testing.T) {
	candidates := ParseReport(sampleReport, windowDate)
	require.Len(t, candidates, 2)

	assert.Equal(t, "abc123", candidates[0].ID)
	assert.Equal(t, "Meeting with Nicolas", candidates[0].Title)
	assert.Equal(t, time.Date(2025, 11, 26, 16, 0, 0, 0, time.UTC), candidates[0].Start)
	assert.Equal(t, time.Date(2025, 11, 26, 17, 0, 0, 0, time.UTC), candidates[0].End)

	assert.Equal(t, "xyz789", candidates[1].ID)
	assert.Equal(t, "Standup", candidates[1].Title)
	assert.Equal(t, time.Date(2025, 11, 26, 9, 0, 0, 0, time.UTC), candidates[1].Start)
	assert.Equal(t, time.Date(2025, 11, 26, 9, 15, 0, 0, time.UTC), candidates[1].End)
}

func TestParseReportEmptyInput(t *testing.T) {
	assert.Empty(t, ParseReport("", windowDate))
	assert.Empty(t, ParseReport("\n\n\n", windowDate))
}

func TestParseReportPreservesSourceOrder(t *testing.T) {
	report := `Event: C
Event ID: 3

Event: A
Event ID: 1

Event: B
Event ID: 2
`
	candidates := ParseReport(report, windowDate)
	require.Len(t, candidates, 3)
	assert.Equal(t, "3", candidates[0].ID)
	assert.Equal(t, "1", candidates[1].ID)
	assert.Equal(t, "2", candidates[2].ID)
}

func TestParseReportDropsIncompleteBlocks(t *testing.T) {
	tests := []struct {
		name    string
		report  string
		wantIDs []string
	}{
		{
			name: "block without id is dropped",
			report: `Event: Orphan
Time: 10:00 AM - 11:00 AM

Event: Kept
Event ID: ok1
`,
			wantIDs: []string{"ok1"},
		},
		{
			name: "block without title is dropped",
			report: `Event ID: orphan1

Event: Kept
Event ID: ok1
`,
			wantIDs: []string{"ok1"},
		},
		{
			name:    "preamble text only",
			report:  "Found 0 events for the requested range.\n",
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := ParseReport(tt.report, windowDate)
			var ids []string
			for _, c := range candidates {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParseReportMalformedTimeFailsSoft(t *testing.T) {
	report := `Event: Broken clock
Event ID: b1
Time: around four-ish

Event: No time at all
Event ID: b2
`
	candidates := ParseReport(report, windowDate)
	require.Len(t, candidates, 2)

	// Both candidates survive; only the times are missing.
	assert.True(t, candidates[0].Start.IsZero())
	assert.True(t, candidates[0].End.IsZero())
	assert.True(t, candidates[1].Start.IsZero())
}

func TestParseReportIgnoresDecorationLines(t *testing.T) {
	report := `Event: Offsite planning
Event ID: off1
Time: 01:00 PM - 03:00 PM
Location: Room 4
Description: Quarterly planning
Attendees: nicolas@example.com, david@example.com
`
	candidates := ParseReport(report, windowDate)
	require.Len(t, candidates, 1)
	assert.Equal(t, "off1", candidates[0].ID)
	assert.Equal(t, "Offsite planning", candidates[0].Title)
	assert.Contains(t, candidates[0].Raw, "Location: Room 4")
}

func TestParseReportLastBlockWithoutTrailingBlankLine(t *testing.T) {
	report := "Event: Final\nEvent ID: fin1"
	candidates := ParseReport(report, windowDate)
	require.Len(t, candidates, 1)
	assert.Equal(t, "fin1", candidates[0].ID)
}
