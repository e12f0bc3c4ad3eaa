package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calagent application
var rootCmd = &cobra.Command{
	Use:   "calagent",
	Short: "Natural-language calendar assistant",
	Long: `calagent understands free-text calendar requests ("list today's events",
"move my 3pm meeting to 4pm"), maps them to calendar operations, and
dispatches them to a calendar backend over MCP.

It can run as:
  - An interactive assistant (default)
  - A one-shot command (ask)
  - The MCP calendar server itself (serve)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calagent version %s\n" .Version}}`)

	// If no subcommand is provided, start the interactive assistant
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
