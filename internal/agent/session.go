package agent

import (
	"log/slog"
	"strings"

	"calagent/internal/resolve"
)

// pendingResolution parks an ambiguous update across turns: the utterance
// that triggered it, the tool call waiting for a target id, and the
// candidates the user must choose between.
type pendingResolution struct {
	Utterance  string
	Tool       string
	Args       map[string]any
	Candidates []resolve.CandidateEvent
}

// AnswerAttempt is the result of matching a clarifying reply against the
// pending candidate set.
type AnswerAttempt struct {
	Matched bool
	EventID string
	Tool    string
	Args    map[string]any
}

// Session holds the conversational state that survives between turns. At
// most one clarification can be pending at a time; everything else is
// transient within a turn.
type Session struct {
	pending *pendingResolution
	history []string
	logger  *slog.Logger
}

// historyLimit caps how many finished turns are replayed to the
// interpreter.
const historyLimit = 20

// NewSession creates an empty session. A nil logger falls back to
// slog.Default().
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{logger: logger}
}

// HasPending reports whether a clarification is waiting for an answer.
func (s *Session) HasPending() bool {
	return s.pending != nil
}

// Park stores an ambiguous resolution until the user disambiguates. A
// second ambiguous result while one is already pending is an invariant
// violation; the stale state is dropped so only the new one is alive.
func (s *Session) Park(p pendingResolution) {
	if s.pending != nil {
		s.logger.Warn("replacing stale pending clarification",
			slog.String("stale_utterance", s.pending.Utterance),
		)
	}
	s.pending = &p
}

// Clear drops any pending clarification.
func (s *Session) Clear() {
	s.pending = nil
}

// Offer matches an utterance against the pending candidate set. It returns
// nil when nothing is pending, so the caller proceeds with normal
// interpretation. A candidate matches when the lower-cased utterance
// contains its id or its normalized title; the first match in candidate
// order wins. On a match the pending state is cleared and the parked tool
// call is handed back with the chosen id. No match keeps the state pending
// so the user can try again.
func (s *Session) Offer(utterance string) *AnswerAttempt {
	if s.pending == nil {
		return nil
	}

	reply := strings.ToLower(utterance)
	for _, candidate := range s.pending.Candidates {
		idMatch := candidate.ID != "" && strings.Contains(reply, strings.ToLower(candidate.ID))
		titleMatch := candidate.Title != "" && strings.Contains(reply, resolve.NormalizeTitle(candidate.Title))
		if idMatch || titleMatch {
			attempt := &AnswerAttempt{
				Matched: true,
				EventID: candidate.ID,
				Tool:    s.pending.Tool,
				Args:    s.pending.Args,
			}
			s.pending = nil
			return attempt
		}
	}

	return &AnswerAttempt{Matched: false}
}

// PushHistory records one finished turn for interpreter context.
func (s *Session) PushHistory(entry string) {
	s.history = append(s.history, entry)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}

// History returns the recorded turns, oldest first.
func (s *Session) History() []string {
	return s.history
}
