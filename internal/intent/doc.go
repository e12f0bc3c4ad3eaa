// Package intent turns free-text calendar requests into structured tool
// calls. The language model decides which operation the user wants and
// extracts its arguments; this package owns the contract around that
// boundary: parsing the model output, normalizing arguments, and rejecting
// calls that would reach the backend half-formed.
package intent
