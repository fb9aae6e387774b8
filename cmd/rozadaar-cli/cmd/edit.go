package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/editor"
	"rozadaar/internal/application/commands"
)

var editCmd = &cobra.Command{
	Use:   "edit [location-id]",
	Short: "Edit a location's timetable in $EDITOR",
	Long: `Open the cached location as JSON in $EDITOR. Syncs leave the location
alone while the editor is open. On save the edited table is pushed to the
remote source; without a secret it is kept in the local cache only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := locationID
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" {
			id = catalog.Selected().ID
		}

		result, err := commands.NewEditLocationCommand(reconciler, catalog, editor.NewOpener(), id, adminSecret()).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, v := range result.Violations {
			fmt.Printf("warning: %s\n", v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
