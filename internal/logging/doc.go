// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the agent so that
// turns, tool invocations and resolution attempts can be correlated in
// log output, and small convenience constructors for common attributes.
package logging
