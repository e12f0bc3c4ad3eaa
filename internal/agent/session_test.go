package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calagent/internal/resolve"
)

func pendingFixture() pendingResolution {
	return pendingResolution{
		Utterance: "move my meeting to 5pm",
		Tool:      "update_event",
		Args:      map[string]any{"start_datetime": "2025-11-26T17:00:00Z"},
		Candidates: []resolve.CandidateEvent{
			{ID: "abc123", Title: "Meeting with Nicolas"},
			{ID: "xyz789", Title: "Standup"},
		},
	}
}

func TestSessionOfferWithoutPending(t *testing.T) {
	s := NewSession(nil)
	assert.Nil(t, s.Offer("anything"))
	assert.False(t, s.HasPending())
}

func TestSessionOfferMatchesByID(t *testing.T) {
	s := NewSession(nil)
	s.Park(pendingFixture())

	attempt := s.Offer("it's xyz789")
	require.NotNil(t, attempt)
	assert.True(t, attempt.Matched)
	assert.Equal(t, "xyz789", attempt.EventID)
	assert.Equal(t, "update_event", attempt.Tool)
	assert.Equal(t, "2025-11-26T17:00:00Z", attempt.Args["start_datetime"])

	// Matching clears the pending state; the next turn interprets normally.
	assert.Nil(t, s.Offer("next utterance"))
}

func TestSessionOfferMatchesByTitle(t *testing.T) {
	s := NewSession(nil)
	s.Park(pendingFixture())

	attempt := s.Offer("the Meeting With Nicolas please")
	require.NotNil(t, attempt)
	assert.True(t, attempt.Matched)
	assert.Equal(t, "abc123", attempt.EventID)
}

func TestSessionOfferFirstMatchWins(t *testing.T) {
	s := NewSession(nil)
	s.Park(pendingResolution{
		Tool: "update_event",
		Candidates: []resolve.CandidateEvent{
			{ID: "first", Title: "Sync"},
			{ID: "second", Title: "Sync"},
		},
	})

	attempt := s.Offer("the sync one")
	require.NotNil(t, attempt)
	assert.Equal(t, "first", attempt.EventID)
}

func TestSessionOfferNoMatchKeepsPending(t *testing.T) {
	s := NewSession(nil)
	s.Park(pendingFixture())

	attempt := s.Offer("the blue one")
	require.NotNil(t, attempt)
	assert.False(t, attempt.Matched)
	assert.True(t, s.HasPending())
}

func TestSessionParkReplacesStaleState(t *testing.T) {
	s := NewSession(nil)
	s.Park(pendingFixture())

	replacement := pendingFixture()
	replacement.Candidates = []resolve.CandidateEvent{{ID: "new1", Title: "Review"}}
	s.Park(replacement)

	attempt := s.Offer("the review")
	require.NotNil(t, attempt)
	assert.Equal(t, "new1", attempt.EventID)
}

func TestSessionHistoryIsCapped(t *testing.T) {
	s := NewSession(nil)
	for i := 0; i < historyLimit+5; i++ {
		s.PushHistory("turn")
	}
	assert.Len(t, s.History(), historyLimit)
}
