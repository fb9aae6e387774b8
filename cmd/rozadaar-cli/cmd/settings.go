package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		printSettings(catalog.Settings())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Change one preference",
	Long: `Change one preference. Known names: ` + strings.Join(commands.SettingNames(), ", ") + `.

Examples:
  rozadaar-cli settings set notifications off
  rozadaar-cli settings set sehri-offset 45
  rozadaar-cli settings set location kotli`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := commands.NewSetSettingCommand(catalog, args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		printSettings(settings)
		return nil
	},
}

func printSettings(s domain.Settings) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	lastSync := s.LastSyncTime
	if lastSync == "" {
		lastSync = "never"
	}

	fmt.Printf("location       %s\n", s.SelectedLocationID)
	fmt.Printf("language       %s\n", s.Language)
	fmt.Printf("notifications  %s\n", onOff(s.NotificationsEnabled))
	fmt.Printf("sehri-offset   %d min\n", s.SehriAlertOffset)
	fmt.Printf("iftar-offset   %d min\n", s.IftarAlertOffset)
	fmt.Printf("autosync       %s\n", onOff(s.AutoSync))
	fmt.Printf("last sync      %s\n", lastSync)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
