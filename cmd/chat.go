package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"calagent/internal/backend"
)

func newChatCmd() *cobra.Command {
	var flags agentFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive calendar assistant",
		Long: `Start a turn-based conversation with the calendar assistant. Each line
you type is interpreted as a calendar request; when a request is ambiguous
the assistant asks which event you meant before changing anything.

Requires OPENAI_API_KEY. By default the assistant launches its own bundled
MCP calendar server backed by a local SQLite store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), flags)
		},
	}

	registerAgentFlags(cmd, &flags)
	return cmd
}

func registerAgentFlags(cmd *cobra.Command, flags *agentFlags) {
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&flags.model, "model", "", "Chat model for interpretation (default: gpt-4o-mini)")
	cmd.Flags().StringVar(&flags.serverCommand, "server-command", "", "Command to launch the MCP calendar server (default: this binary)")
	cmd.Flags().StringVar(&flags.backendKind, "backend", "sqlite", "Calendar backend for the bundled server: sqlite or google")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "SQLite database path for the bundled server")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", backend.DefaultTimeout, "Timeout per backend call")
}

func runChat(ctx context.Context, flags agentFlags) error {
	a, provider, err := buildAgent(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		provider.Shutdown(shutdownCtx)
	}()

	fmt.Println("Calendar assistant ready. Ask about your calendar, or type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		utterance := strings.TrimSpace(scanner.Text())
		if utterance == "" {
			continue
		}
		if utterance == "exit" || utterance == "quit" {
			break
		}

		reply := a.HandleTurn(ctx, utterance)
		fmt.Println(reply.Text)
		fmt.Println()
	}

	return scanner.Err()
}
