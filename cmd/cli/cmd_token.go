package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/sguter90/anomalymaestro/pkg/tools"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tokenCmd = &cobra.Command{
	Use:         "token",
	Short:       "Issue a bearer token for the tool API",
	Long:        `Issue a JWT signed with JWT_SECRET. When JWT_SECRET is unset the secret is read from the terminal.`,
	Annotations: map[string]string{"skipApp": "true"},
	RunE:        runToken,
}

func init() {
	tokenCmd.Flags().String("operator", "operator", "operator name embedded in the token")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	operator, _ := cmd.Flags().GetString("operator")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		fmt.Fprint(os.Stderr, "Enter JWT secret: ")
		secretBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		fmt.Fprintln(os.Stderr) // New line after secret input
		secret = string(secretBytes)
	}

	token, expiresAt, err := tools.GenerateToken(secret, operator)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(os.Stderr, "Expires: %s\n", expiresAt.Format("2006-01-02 15:04:05"))
	return nil
}
