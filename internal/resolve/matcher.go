package resolve

import "strings"

// State classifies the result of a resolution attempt.
type State int

const (
	// StateNotFound means no candidate matched the title hint.
	StateNotFound State = iota
	// StateResolved means exactly one candidate matched.
	StateResolved
	// StateAmbiguous means several candidates matched and the user has to
	// pick one.
	StateAmbiguous
	// StateTransportError means the candidate fetch itself failed; Err
	// carries the cause.
	StateTransportError
)

// String returns the metric/log label for the state.
func (s State) String() string {
	switch s {
	case StateNotFound:
		return "not_found"
	case StateResolved:
		return "resolved"
	case StateAmbiguous:
		return "ambiguous"
	case StateTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of matching or resolving.
// EventID is set for StateResolved, Candidates for StateAmbiguous and Err
// for StateTransportError.
type Outcome struct {
	State      State
	EventID    string
	Candidates []CandidateEvent
	Err        error
}

// Match compares candidates against a title hint and classifies the result.
//
// Matching is exact equality after trimming and lower-casing; deliberately
// no substring or fuzzy matching, since a false positive here updates the
// wrong real event. Ambiguous candidates keep their report order.
func Match(candidates []CandidateEvent, titleHint string) Outcome {
	hint := NormalizeTitle(titleHint)

	var matches []CandidateEvent
	for _, c := range candidates {
		if NormalizeTitle(c.Title) == hint {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return Outcome{State: StateNotFound}
	case 1:
		return Outcome{State: StateResolved, EventID: matches[0].ID}
	default:
		return Outcome{State: StateAmbiguous, Candidates: matches}
	}
}

// NormalizeTitle lowers and trims an event title for comparison.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
