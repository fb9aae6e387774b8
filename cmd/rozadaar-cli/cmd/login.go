package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/keyring"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save the admin secret in the OS keyring",
	Long: `Read the admin secret from stdin and save it in the OS keyring, so admin
commands no longer need --secret or ROZADAAR_SECRET.

Examples:
  rozadaar-cli login
  echo "$ADMIN_SECRET" | rozadaar-cli login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.ErrOrStderr(), "Admin secret: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return fmt.Errorf("no secret read: %w", err)
		}

		if err := keyring.NewStore().SaveSecret(line); err != nil {
			return err
		}
		fmt.Println("Secret saved.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the admin secret from the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.NewStore().ClearSecret(); err != nil {
			return err
		}
		fmt.Println("Secret removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
