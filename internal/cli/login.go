package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/apiclient"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Account password (or LEDGERDESK_PASSWORD)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password := flagPassword
	if password == "" {
		password = os.Getenv("LEDGERDESK_PASSWORD")
	}
	if flagEmail == "" || password == "" {
		return errors.New("--email and --password are required")
	}

	s, err := settings()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	tokens, err := apiclient.New(s.APIURL, "").Login(ctx, flagEmail, password)
	if err != nil {
		return err
	}

	s.Token = tokens.AccessToken
	if err := SaveSettings(s); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Logged in to %s\n", s.APIURL)
	fmt.Fprintf(cmd.OutOrStdout(), "  Token saved to %s\n", SettingsPath())
	return nil
}
