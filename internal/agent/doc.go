// Package agent runs the conversational turn loop: interpret an utterance,
// resolve vague update targets against the calendar, dispatch the resulting
// tool call, and ask clarifying questions when the target is ambiguous.
package agent
