package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List and manage notes",
	Long: `List the notes shown for a location, or add and delete notes on the
remote source.

Examples:
  rozadaar-cli notes list
  rozadaar-cli notes add "Moon sighted" --location sunwarian
  rozadaar-cli notes add "Read the Sehri dua" --type guide
  rozadaar-cli notes delete note_1234`,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes visible for the location",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := locationID
		if id == "" {
			id = catalog.Selected().ID
		}

		notes := domain.VisibleNotes(catalog.Notes(), id)
		if len(notes) == 0 {
			fmt.Println("No notes.")
			return nil
		}
		for _, n := range notes {
			scope := "global"
			if !n.IsGlobal {
				scope = n.LocationID
			}
			fmt.Printf("%s [%s, %s] %s\n", n.ID, n.Type, scope, n.Text.En)
			if n.Text.Ur != "" {
				fmt.Printf("    %s\n", n.Text.Ur)
			}
		}
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Publish a note, global unless --location is set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textUr, _ := cmd.Flags().GetString("ur")
		noteType, _ := cmd.Flags().GetString("type")

		text := domain.LocalizedText{En: args[0], Ur: textUr}
		result, err := commands.NewAddNoteCommand(reconciler, catalog, adminSecret(), text, locationID, noteType).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Remove a note from the remote source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.NewDeleteNoteCommand(reconciler, catalog, adminSecret(), args[0]).Execute(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	notesAddCmd.Flags().String("ur", "", "Urdu text")
	notesAddCmd.Flags().String("type", domain.NoteTypeNote, "note or guide")

	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesDeleteCmd)
}
