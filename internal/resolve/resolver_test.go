package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFetch(report string, err error) FetchWindowFunc {
	return func(ctx context.Context, start, end time.Time) (string, error) {
		return report, err
	}
}

func TestResolverResolvesByTitleHint(t *testing.T) {
	r := NewResolver(fixedFetch(sampleReport, nil), nil)

	outcome := r.Resolve(context.Background(), Request{
		TitleHint:   "meeting with nicolas",
		WindowStart: windowDate,
		WindowEnd:   windowDate,
	})

	require.Equal(t, StateResolved, outcome.State)
	assert.Equal(t, "abc123", outcome.EventID)
	assert.NoError(t, outcome.Err)
}

func TestResolverFetchErrorIsTransportError(t *testing.T) {
	sentinel := errors.New("backend unreachable")
	r := NewResolver(fixedFetch("", sentinel), nil)

	outcome := r.Resolve(context.Background(), Request{TitleHint: "standup"})

	require.Equal(t, StateTransportError, outcome.State)
	assert.ErrorIs(t, outcome.Err, sentinel)
	assert.Empty(t, outcome.EventID)
	assert.Empty(t, outcome.Candidates)
}

func TestResolverEmptyHintUsesWindowAsFilter(t *testing.T) {
	tests := []struct {
		name      string
		report    string
		wantState State
		wantID    string
	}{
		{
			name:      "empty window",
			report:    "",
			wantState: StateNotFound,
		},
		{
			name:      "single event resolves without a hint",
			report:    "Event: Dentist\nEvent ID: den1\nTime: 08:00 AM - 09:00 AM\n",
			wantState: StateResolved,
			wantID:    "den1",
		},
		{
			name:      "several events are ambiguous without a hint",
			report:    sampleReport,
			wantState: StateAmbiguous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(fixedFetch(tt.report, nil), nil)
			outcome := r.Resolve(context.Background(), Request{WindowStart: windowDate, WindowEnd: windowDate})
			assert.Equal(t, tt.wantState, outcome.State)
			assert.Equal(t, tt.wantID, outcome.EventID)
		})
	}
}

func TestResolverAmbiguousKeepsCandidateOrder(t *testing.T) {
	report := "Event: Sync\nEvent ID: a1\n\nEvent: Sync\nEvent ID: a2\n"
	r := NewResolver(fixedFetch(report, nil), nil)

	outcome := r.Resolve(context.Background(), Request{TitleHint: "sync", WindowStart: windowDate, WindowEnd: windowDate})

	require.Equal(t, StateAmbiguous, outcome.State)
	require.Len(t, outcome.Candidates, 2)
	assert.Equal(t, "a1", outcome.Candidates[0].ID)
	assert.Equal(t, "a2", outcome.Candidates[1].ID)
}

func TestResolverPassesWindowToFetch(t *testing.T) {
	var gotStart, gotEnd time.Time
	fetch := func(ctx context.Context, start, end time.Time) (string, error) {
		gotStart, gotEnd = start, end
		return "", nil
	}
	r := NewResolver(fetch, nil)

	end := windowDate.AddDate(0, 0, 7)
	r.Resolve(context.Background(), Request{WindowStart: windowDate, WindowEnd: end})

	assert.Equal(t, windowDate, gotStart)
	assert.Equal(t, end, gotEnd)
}
