package resolve

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"calagent/internal/instrumentation"
	"calagent/internal/logging"
)

// Request describes one attempt to find the backend id of the event a user
// referred to without naming it. PendingFields carries the update arguments
// (new times, new title, ...) that must be applied once the id is known;
// the resolver itself never touches them, it only keeps them together with
// the attempt so the caller can complete the operation afterwards.
type Request struct {
	TitleHint     string
	WindowStart   time.Time
	WindowEnd     time.Time
	PendingFields map[string]any
}

// FetchWindowFunc fetches the raw list_events report for a date window.
// Implementations issue the backend round trip; the resolver only consumes
// the text.
type FetchWindowFunc func(ctx context.Context, start, end time.Time) (string, error)

// Resolver runs the fetch → parse → match pipeline for one Request.
type Resolver struct {
	fetch  FetchWindowFunc
	logger *slog.Logger
}

// NewResolver creates a Resolver using fetch to obtain candidate reports.
// A nil logger falls back to slog.Default().
func NewResolver(fetch FetchWindowFunc, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		fetch:  fetch,
		logger: logging.WithOperation(logger, "resolve"),
	}
}

// Resolve executes one resolution attempt.
//
// A failing fetch maps to StateTransportError and is never swallowed: the
// caller must not fall through to a partial update. An ambiguous outcome is
// not an error; the caller is expected to park the request and ask the user,
// never to auto-pick a candidate.
func (r *Resolver) Resolve(ctx context.Context, req Request) Outcome {
	ctx, span := instrumentation.StartSpan(ctx, "resolve",
		attribute.String("resolve.title_hint", req.TitleHint),
		attribute.String("resolve.window_start", req.WindowStart.Format("2006-01-02")),
		attribute.String("resolve.window_end", req.WindowEnd.Format("2006-01-02")),
	)
	defer span.End()

	report, err := r.fetch(ctx, req.WindowStart, req.WindowEnd)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		r.logger.Error("candidate fetch failed", logging.Err(err))
		return Outcome{State: StateTransportError, Err: err}
	}

	candidates := ParseReport(report, req.WindowStart)

	var outcome Outcome
	if req.TitleHint == "" {
		// No title to go by: the window itself is the filter. One event in
		// the window resolves, several are ambiguous.
		outcome = classifyAll(candidates)
	} else {
		outcome = Match(candidates, req.TitleHint)
	}

	span.SetAttributes(
		attribute.Int(instrumentation.SpanAttrCandidates, len(candidates)),
		attribute.String(instrumentation.SpanAttrOutcome, outcome.State.String()),
	)
	instrumentation.SetSpanSuccess(span)

	r.logger.Info("resolution attempt finished",
		logging.Candidates(len(candidates)),
		logging.Outcome(outcome.State.String()),
	)

	return outcome
}

func classifyAll(candidates []CandidateEvent) Outcome {
	switch len(candidates) {
	case 0:
		return Outcome{State: StateNotFound}
	case 1:
		return Outcome{State: StateResolved, EventID: candidates[0].ID}
	default:
		return Outcome{State: StateAmbiguous, Candidates: candidates}
	}
}
