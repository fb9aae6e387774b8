package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/calendar"
	"rozadaar/internal/application/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export timetables to other formats",
}

var exportICSCmd = &cobra.Command{
	Use:   "ics [location-id]",
	Short: "Write a location's timetable as an iCalendar file",
	Long: `Write one calendar event per fasting day, from Sehri to Iftar. Days with
malformed timings are skipped. Event ids are stable, so re-importing an
updated export replaces the earlier events.

Examples:
  rozadaar-cli export ics > ramadan.ics
  rozadaar-cli export ics kotli -o kotli.ics`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id := locationID
		if len(args) == 1 {
			id = args[0]
		}
		output, _ := cmd.Flags().GetString("output")

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, createErr := os.Create(output)
			if createErr != nil {
				return createErr
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}

		n, err := commands.NewExportCommand(catalog, calendar.NewExporter(), loc, id).Execute(context.Background(), w)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d day(s)\n", n)
		return nil
	},
}

func init() {
	exportICSCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportICSCmd)
}
