// Package server holds the shared context for the MCP calendar server.
package server
