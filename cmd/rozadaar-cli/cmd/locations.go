package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

var locationsCmd = &cobra.Command{
	Use:   "locations [query]",
	Short: "List cached locations",
	Long: `List the cached locations, optionally filtered by a case-insensitive
match on the English name, the Urdu name or the id. The selected location
is marked with *.

Examples:
  rozadaar-cli locations
  rozadaar-cli locations kotli`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		selected := catalog.Settings().SelectedLocationID

		matches := domain.SearchLocations(catalog.Locations(), query)
		if len(matches) == 0 {
			fmt.Println("No matching location.")
			return nil
		}
		for _, l := range matches {
			marker := " "
			if l.ID == selected {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s (%d days)\n", marker, l.ID, l.NameEn, len(l.Timings))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check cached timetables for data problems",
	Long: `Check every cached timetable (or the one given with --location) for
duplicate dates, non-ascending dates, malformed clock values and days whose
Sehri is not before Iftar. Problems are reported but never block the
countdown, which skips the affected days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewValidateCommand(catalog, locationID).Execute(context.Background())
		if err != nil {
			return err
		}

		if result.OK() {
			fmt.Printf("%d location(s) checked, no problems.\n", result.Checked)
			return nil
		}
		for _, id := range result.LocationIDs() {
			fmt.Println(id)
			for _, v := range result.Violations[id] {
				fmt.Printf("  %s\n", v)
			}
		}
		return fmt.Errorf("%d of %d location(s) have problems", len(result.Violations), result.Checked)
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(validateCmd)
}
