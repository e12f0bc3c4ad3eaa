// Package calendar holds the event model and the storage backends the MCP
// server exposes: a local SQLite store for self-contained use and a Google
// Calendar client for a real calendar. Both satisfy the Backend interface
// the tool handlers dispatch to.
package calendar
