// Package common holds shared plumbing for MCP tool handlers.
package common
