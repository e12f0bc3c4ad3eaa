// Package dates resolves user-facing date expressions to concrete times.
//
// The backend accepts either natural-language tokens or ISO-8601 dates for
// its date arguments. The agent resolves "today" and "tomorrow" locally so it
// can compute candidate-fetch windows without a backend round trip; everything
// else is parsed with go-naturaldate, biased toward the future the way a
// calendar user expects.
package dates
