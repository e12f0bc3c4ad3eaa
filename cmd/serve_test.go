package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeRejectsUnknownBackend(t *testing.T) {
	cmd := newServeCmd()
	cmd.SetArgs([]string{"--backend", "redis"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestAskRequiresArguments(t *testing.T) {
	cmd := newAskCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := cmd.Execute()
	require.Error(t, err)
}

func TestAgentCommandsShareFlagSet(t *testing.T) {
	chat := newChatCmd()
	ask := newAskCmd()
	for _, flag := range []string{"debug", "model", "server-command", "backend", "db", "timeout"} {
		assert.NotNil(t, chat.Flags().Lookup(flag), "chat --%s", flag)
		assert.NotNil(t, ask.Flags().Lookup(flag), "ask --%s", flag)
	}
}
