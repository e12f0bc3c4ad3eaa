package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"calagent/internal/backend"
	"calagent/internal/dates"
	"calagent/internal/instrumentation"
	"calagent/internal/intent"
	"calagent/internal/logging"
	"calagent/internal/resolve"
)

// ReplyKind classifies how a turn ended.
type ReplyKind int

const (
	// ReplyResult carries the backend's answer to a completed operation.
	ReplyResult ReplyKind = iota
	// ReplyQuestion asks the user for more input before anything mutates.
	ReplyQuestion
	// ReplyError reports a failed turn. The next turn starts clean.
	ReplyError
)

// Reply is what one turn hands back to the user interface.
type Reply struct {
	Kind ReplyKind
	Text string
}

// Agent processes utterances one at a time. Exactly one turn runs to
// completion, backend round trips included, before the next is accepted.
type Agent struct {
	interp   intent.Interpreter
	invoker  backend.Invoker
	session  *Session
	resolver *resolve.Resolver
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	now      func() time.Time
}

// Option configures an Agent.
type Option func(*Agent)

// WithMetrics records turn and resolution counters.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithClock overrides the clock used for date windows.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New builds an Agent on the given interpretation and invocation
// boundaries. A nil logger falls back to slog.Default().
func New(interp intent.Interpreter, invoker backend.Invoker, logger *slog.Logger, opts ...Option) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Agent{
		interp:  interp,
		invoker: invoker,
		session: NewSession(logger),
		logger:  logger,
		metrics: &instrumentation.Metrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.resolver = resolve.NewResolver(a.fetchWindow, logger)
	return a
}

// Session exposes the conversational state, mainly for tests.
func (a *Agent) Session() *Session {
	return a.session
}

// HandleTurn processes one utterance to completion. Errors never escape:
// they are converted to a ReplyError and the next turn starts clean, except
// that an ambiguous resolution intentionally parks state and asks the user
// to disambiguate.
func (a *Agent) HandleTurn(ctx context.Context, utterance string) Reply {
	ctx, span := instrumentation.StartTurnSpan(ctx, logging.Truncate(utterance, 200))
	defer span.End()

	start := a.now()
	reply := a.handleTurn(ctx, utterance)

	status := "success"
	switch reply.Kind {
	case ReplyError:
		status = "error"
		instrumentation.SetSpanError(span, errors.New(reply.Text))
	case ReplyQuestion:
		status = "clarification"
		instrumentation.SetSpanSuccess(span)
	default:
		instrumentation.SetSpanSuccess(span)
	}
	span.SetAttributes(attribute.String(instrumentation.SpanAttrStatus, status))
	a.metrics.RecordTurn(ctx, status, a.now().Sub(start))

	return reply
}

func (a *Agent) handleTurn(ctx context.Context, utterance string) Reply {
	// A pending clarification intercepts the utterance before any
	// interpretation happens.
	if attempt := a.session.Offer(utterance); attempt != nil {
		if !attempt.Matched {
			return Reply{Kind: ReplyQuestion, Text: "I didn't recognise which meeting you meant. Please answer with the event id or its title."}
		}
		return a.completeClarifiedUpdate(ctx, utterance, attempt)
	}

	parsed, err := a.interp.Interpret(ctx, utterance, a.session.History())
	if err != nil {
		a.logger.Error("interpretation failed", logging.Err(err))
		return Reply{Kind: ReplyError, Text: userMessage(err)}
	}
	if parsed.IsQuestion() {
		return Reply{Kind: ReplyQuestion, Text: parsed.Question}
	}

	intent.Normalize(parsed.Args)
	titleHint := intent.TitleHint(parsed.Args)

	if err := intent.Validate(parsed.Tool, parsed.Args); err != nil {
		return Reply{Kind: ReplyError, Text: userMessage(err)}
	}

	if parsed.Tool == intent.ToolUpdateEvent && intent.EventID(parsed.Args) == "" {
		// Placeholder ids must never reach the backend.
		delete(parsed.Args, "event_id")
		return a.resolveAndDispatch(ctx, utterance, parsed, titleHint)
	}

	return a.dispatch(ctx, utterance, parsed.Tool, parsed.Args)
}

// completeClarifiedUpdate re-enters the update path once the user has said
// which event they meant. The utterance is re-interpreted so a reply like
// "the one with Nicolas, make it 5pm" can still adjust the parked fields;
// the interpreted fields win over the parked ones, and the chosen id always
// sticks.
func (a *Agent) completeClarifiedUpdate(ctx context.Context, utterance string, attempt *AnswerAttempt) Reply {
	args := make(map[string]any, len(attempt.Args)+1)
	for k, v := range attempt.Args {
		args[k] = v
	}

	if parsed, err := a.interp.Interpret(ctx, utterance, a.session.History()); err == nil &&
		!parsed.IsQuestion() && parsed.Tool == intent.ToolUpdateEvent {
		intent.Normalize(parsed.Args)
		intent.TitleHint(parsed.Args)
		for k, v := range parsed.Args {
			args[k] = v
		}
		// The clarifying reply may itself carry a placeholder id. The
		// chosen candidate overrides it below.
		if intent.EventID(args) == "" {
			delete(args, "event_id")
		}
	}

	args["event_id"] = attempt.EventID
	a.logger.Info("clarification resolved",
		logging.EventID(attempt.EventID),
	)

	if err := intent.Validate(attempt.Tool, args); err != nil {
		return Reply{Kind: ReplyError, Text: userMessage(err)}
	}
	return a.dispatch(ctx, utterance, attempt.Tool, args)
}

// resolveAndDispatch finds the id of the event an update refers to, then
// either finishes the call, parks it behind a clarifying question, or fails
// without mutating anything.
func (a *Agent) resolveAndDispatch(ctx context.Context, utterance string, parsed intent.Intent, titleHint string) Reply {
	windowStart, windowEnd := dates.ResolutionWindow(utterance, a.now())

	outcome := a.resolver.Resolve(ctx, resolve.Request{
		TitleHint:     titleHint,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
		PendingFields: parsed.Args,
	})
	a.metrics.RecordResolution(ctx, outcome.State.String())

	switch outcome.State {
	case resolve.StateResolved:
		parsed.Args["event_id"] = outcome.EventID
		return a.dispatch(ctx, utterance, parsed.Tool, parsed.Args)

	case resolve.StateAmbiguous:
		a.session.Park(pendingResolution{
			Utterance:  utterance,
			Tool:       parsed.Tool,
			Args:       parsed.Args,
			Candidates: outcome.Candidates,
		})
		return Reply{Kind: ReplyQuestion, Text: clarificationQuestion(outcome.Candidates)}

	case resolve.StateTransportError:
		return Reply{Kind: ReplyError, Text: userMessage(outcome.Err)}

	default:
		if titleHint != "" {
			return Reply{Kind: ReplyError, Text: fmt.Sprintf("I couldn't find an event matching %q in that time range.", titleHint)}
		}
		return Reply{Kind: ReplyError, Text: "I couldn't find the event to update in that time range."}
	}
}

func (a *Agent) dispatch(ctx context.Context, utterance, tool string, args map[string]any) Reply {
	result, err := a.invoker.Invoke(ctx, tool, args)
	if err != nil {
		return Reply{Kind: ReplyError, Text: userMessage(err)}
	}
	if result.IsError {
		return Reply{Kind: ReplyError, Text: result.Text}
	}

	a.session.PushHistory(intent.FormatHistoryEntry(utterance, logging.Truncate(result.Text, 200)))
	return Reply{Kind: ReplyResult, Text: result.Text}
}

// fetchWindow issues the candidate listing for a resolution window.
func (a *Agent) fetchWindow(ctx context.Context, start, end time.Time) (string, error) {
	result, err := a.invoker.Invoke(ctx, intent.ToolListEvents, map[string]any{
		"date_start": start.Format(dates.ISODate),
		"date_end":   end.Format(dates.ISODate),
	})
	if err != nil {
		return "", err
	}
	if result.IsError {
		return "", fmt.Errorf("listing events: %s", result.Text)
	}
	return result.Text, nil
}

func clarificationQuestion(candidates []resolve.CandidateEvent) string {
	options := make([]string, 0, len(candidates))
	for _, c := range candidates {
		options = append(options, fmt.Sprintf("%s (%s)", c.ID, c.Title))
	}
	return fmt.Sprintf("Multiple events match your request: %s. Which one did you mean?", strings.Join(options, ", "))
}

// userMessage converts an internal error into the text shown to the user.
func userMessage(err error) string {
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return fmt.Sprintf("The calendar backend is unavailable: %v. Nothing was changed.", transportErr.Err)
	}

	var argsErr *intent.InvalidArgumentsError
	if errors.As(err, &argsErr) {
		return fmt.Sprintf("I can't do that yet: %s.", argsErr.Reason)
	}

	var interpErr *intent.InterpretationError
	if errors.As(err, &interpErr) {
		return "I couldn't work out what calendar operation you want. Could you rephrase that?"
	}

	return err.Error()
}
