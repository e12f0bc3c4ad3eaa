// Package backend dispatches calendar operations to an MCP server over
// stdio. Each invocation launches a fresh server subprocess, performs one
// tool call, and tears the session down; nothing is pooled or reused across
// calls.
package backend
