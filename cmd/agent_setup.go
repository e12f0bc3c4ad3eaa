package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"calagent/internal/agent"
	"calagent/internal/backend"
	"calagent/internal/instrumentation"
	"calagent/internal/intent"
	"calagent/internal/logging"
)

// agentFlags holds the flags shared by the chat and ask commands.
type agentFlags struct {
	debug         bool
	model         string
	serverCommand string
	backendKind   string
	dbPath        string
	timeout       time.Duration
}

// buildAgent wires interpreter, backend client, and instrumentation into a
// ready Agent plus the provider whose Shutdown the caller owns.
func buildAgent(ctx context.Context, flags agentFlags) (*agent.Agent, *instrumentation.Provider, error) {
	logger := logging.Setup(os.Stderr, flags.debug)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	instrConfig := instrumentation.DefaultConfig()
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing instrumentation: %w", err)
	}

	command := flags.serverCommand
	serverArgs := []string{"serve", "--backend", flags.backendKind}
	if flags.dbPath != "" {
		serverArgs = append(serverArgs, "--db", flags.dbPath)
	}
	if command == "" {
		// Default to launching this binary's own serve command, so the
		// assistant works out of the box against the local store.
		command, err = os.Executable()
		if err != nil {
			return nil, nil, fmt.Errorf("locating own binary: %w", err)
		}
	}

	invoker := backend.NewClient(command, serverArgs, logger,
		backend.WithTimeout(flags.timeout),
		backend.WithMetrics(provider.Metrics()),
	)
	interp := intent.NewOpenAIInterpreter(apiKey, flags.model, logger)

	a := agent.New(interp, invoker, logger,
		agent.WithMetrics(provider.Metrics()),
	)
	return a, provider, nil
}
