// Package resolve turns a vague reference to an existing calendar event into
// its backend identifier.
//
// The backend's list_events tool returns a human-readable text report rather
// than structured data, so resolution is a three-step pipeline: parse the
// report into candidate events, match the candidates against the title the
// user implied, and classify the result. Exactly one match resolves
// automatically; several matches produce an ambiguous outcome the caller must
// surface as a clarifying question; zero matches fail the attempt. A wrong
// auto-match would silently rewrite the wrong calendar entry, which is why
// matching is exact rather than fuzzy.
package resolve
