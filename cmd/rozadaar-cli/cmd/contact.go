package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/browser"
	"rozadaar/internal/domain"
)

var contactCmd = &cobra.Command{
	Use:   "contact [support|community|request]",
	Short: "Open the WhatsApp support chat, community or location request",
	Long: `Open a WhatsApp link in the default browser. support and community use
the location's own links when it has them; request asks the app team to
add a new location.

Examples:
  rozadaar-cli contact
  rozadaar-cli contact community --print`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"support", "community", "request"},
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "support"
		if len(args) == 1 {
			target = args[0]
		}

		location := catalog.Selected()
		if locationID != "" {
			l, err := catalog.Location(locationID)
			if err != nil {
				return err
			}
			location = l
		}

		var link string
		switch target {
		case "support":
			link = location.SupportURL()
		case "community":
			link = location.CommunityURL()
		case "request":
			link = domain.RequestLocationURL()
		default:
			return fmt.Errorf("unknown contact %q (want support, community or request)", target)
		}

		if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
			fmt.Println(link)
			return nil
		}
		return browser.NewOpener().Open(link)
	},
}

func init() {
	contactCmd.Flags().BoolP("print", "p", false, "print the link instead of opening it")

	rootCmd.AddCommand(contactCmd)
}
