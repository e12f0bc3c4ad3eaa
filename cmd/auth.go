package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"calagent/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Long: `Run the OAuth flow for the google backend. Requires GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET. The token is cached on disk; you only need to
authorize once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if google.HasToken() {
				fmt.Println("A Google OAuth token is already cached.")
				return nil
			}

			authURL, err := google.GetAuthURL()
			if err != nil {
				return err
			}

			fmt.Println("Visit this URL in your browser and grant calendar access:")
			fmt.Println()
			fmt.Printf("  %s\n", authURL)
			fmt.Println()
			fmt.Print("Paste the authorization code here: ")

			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() {
				return fmt.Errorf("no authorization code provided")
			}
			code := strings.TrimSpace(scanner.Text())
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveToken(cmd.Context(), code); err != nil {
				return err
			}

			fmt.Println("Token saved. The google backend is ready.")
			return nil
		},
	}
}
