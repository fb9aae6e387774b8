package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"rozadaar/internal/application/commands"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the cached locations and notes from the remote source",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := reconciler.SyncOnce(context.Background())
		if err != nil {
			return err
		}

		var parts []string
		if result.LocationsChanged {
			parts = append(parts, "locations updated")
		}
		if result.NotesChanged {
			parts = append(parts, "notes updated")
		}
		for _, c := range result.Rejected {
			parts = append(parts, c+" rejected (malformed payload, cache kept)")
		}
		if len(parts) == 0 {
			parts = append(parts, "already up to date")
		}
		fmt.Println(strings.Join(parts, ", "))

		if len(result.Pending) > 0 {
			fmt.Printf("kept local edits of %s, push them to share\n", strings.Join(result.Pending, ", "))
		}
		for _, id := range sortedKeys(result.Violations) {
			fmt.Printf("warning: %s has %d timetable problem(s), run validate\n", id, len(result.Violations[id]))
		}
		return nil
	},
}

var timesyncCmd = &cobra.Command{
	Use:   "timesync",
	Short: "Measure and store the device clock offset",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := corrector.Sync(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("offset %s via %s (round trip %s)\n", result.Offset, result.Source, result.RoundTrip)
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <locations|notes> [file]",
	Short: "Replace a remote collection",
	Long: `Replace a whole collection on the remote source. The collection is read
from a JSON file when one is given, otherwise the cached copy is sent.
Ids missing from the pushed array are deleted remotely.

Examples:
  rozadaar-cli push locations timetable.json
  rozadaar-cli push notes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		if len(args) == 2 {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			data = raw
		}

		result, err := commands.NewPushCommand(reconciler, catalog, adminSecret(), args[0], data).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(timesyncCmd)
	rootCmd.AddCommand(pushCmd)
}
