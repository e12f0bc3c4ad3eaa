package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"calagent/internal/calendar"
	"calagent/internal/server"
	"calagent/internal/tools/calendar_tools"
)

func newServeCmd() *cobra.Command {
	var backendKind string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP calendar server on stdio",
		Long: `Run the calendar backend as an MCP server over stdio. This is what the
assistant launches for each tool call; it can also serve any other MCP
client.

Backends:
  sqlite  local store under ~/.config/calagent (default)
  google  the user's primary Google Calendar (run 'calagent auth' first)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, backendKind, dbPath)
		},
	}

	cmd.Flags().StringVar(&backendKind, "backend", "sqlite", "Calendar backend: sqlite or google")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: ~/.config/calagent/calendar.db)")
	return cmd
}

func runServe(cmd *cobra.Command, backendKind, dbPath string) error {
	ctx := cmd.Context()

	var cal calendar.Backend
	switch backendKind {
	case "sqlite":
		store, err := calendar.OpenStore(dbPath)
		if err != nil {
			return fmt.Errorf("opening calendar store: %w", err)
		}
		defer store.Close()
		cal = store
	case "google":
		gb, err := calendar.NewGoogleBackend(ctx)
		if err != nil {
			return fmt.Errorf("connecting to Google Calendar: %w", err)
		}
		cal = gb
	default:
		return fmt.Errorf("unsupported backend: %s (supported: sqlite, google)", backendKind)
	}

	serverContext := server.NewServerContext(ctx, cal)
	defer serverContext.Shutdown()

	mcpSrv := mcpserver.NewMCPServer("calagent", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("registering calendar tools: %w", err)
	}

	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
