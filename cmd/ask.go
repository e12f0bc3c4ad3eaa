package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"calagent/internal/agent"
)

func newAskCmd() *cobra.Command {
	var flags agentFlags

	cmd := &cobra.Command{
		Use:   "ask [request]",
		Short: "Ask the calendar assistant a single question",
		Long: `Run one calendar request and exit. Ambiguous updates cannot be
clarified in one-shot mode; use chat for those.

Example:
  calagent ask "what's on my calendar tomorrow?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), flags, strings.Join(args, " "))
		},
	}

	registerAgentFlags(cmd, &flags)
	return cmd
}

func runAsk(ctx context.Context, flags agentFlags, utterance string) error {
	a, provider, err := buildAgent(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		provider.Shutdown(shutdownCtx)
	}()

	reply := a.HandleTurn(ctx, utterance)
	fmt.Println(reply.Text)

	if reply.Kind == agent.ReplyError {
		return fmt.Errorf("request failed")
	}
	return nil
}
