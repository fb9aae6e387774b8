package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/dispatch"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/application/countdown"
	"rozadaar/internal/application/scheduler"
	"rozadaar/internal/config"
	"rozadaar/internal/domain"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's Sehri and Iftar",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewTodayCommand(catalog, corrector, loc, locationID).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Location.NameEn)
		if !result.HasRecord {
			fmt.Println("No timetable entry for today.")
		} else {
			r := result.Record
			fmt.Printf("%s %s  Roza %d  %s\n", r.DayEn, r.Date, r.HijriDate, result.Ashra)
			fmt.Printf("Sehri  %s\n", domain.FormatTo12h(r.Sehri))
			fmt.Printf("Iftar  %s\n", domain.FormatTo12h(r.Iftar))
		}
		fmt.Println(countdownLine(result.Countdown))
		dua := domain.CurrentDua(result.Countdown)
		fmt.Printf("%s: %s\n", dua.Title.En, dua.English)

		if m := result.Location.CustomMessage; m != nil && m.En != "" {
			fmt.Println()
			fmt.Println(m.En)
		}
		for _, n := range result.Notes {
			fmt.Printf("- %s\n", n.Text.En)
		}
		fmt.Printf("\nSupport    %s\nCommunity  %s\n", result.Location.SupportURL(), result.Location.CommunityURL())
		return nil
	},
}

var duasCmd = &cobra.Command{
	Use:   "duas",
	Short: "Show the Sehri or Iftar dua and the dua of the current Ashra",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewTodayCommand(catalog, corrector, loc, locationID).Execute(context.Background())
		if err != nil {
			return err
		}

		lang := catalog.Settings().Language
		out := cmd.OutOrStdout()
		for i, d := range domain.DuasOf(result.Countdown) {
			if i > 0 {
				fmt.Fprintln(out)
			}
			title := d.Title.En
			if lang == "ur" {
				title = d.Title.Ur
			}
			fmt.Fprintf(out, "%s\n%s\n%s\n", title, d.Arabic, d.Translation(lang))
		}
		return nil
	},
}

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Count down to the next Sehri or Iftar",
	Long: `Print the time remaining until the next boundary.

With --watch the countdown refreshes every second, alerts ring the terminal
bell and play a chime (unless ROZADAAR_SOUND=off), and the clock and cache are kept in sync until interrupted. Watching
a --location makes it the selected location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			result, err := commands.NewTodayCommand(catalog, corrector, loc, locationID).Execute(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(countdownLine(result.Countdown))
			return nil
		}
		if locationID != "" {
			if _, err := commands.NewSetSettingCommand(catalog, "location", locationID).Execute(context.Background()); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		sinks, closeSinks := alertSinks("rozadaar-cli", dispatch.NewTerminal(out))
		defer closeSinks()

		onTick := func(c domain.Countdown) {
			fmt.Fprintf(out, "\r\033[K%s", countdownLine(c))
		}
		engine := countdown.NewEngine(corrector, sinks, loc, log)
		sched := scheduler.New(engine, catalog, corrector, reconciler, remote, log, scheduler.Options{
			SyncInterval: config.SyncInterval(),
			OnTick:       onTick,
		})
		err := sched.Run(ctx)
		fmt.Fprintln(out)
		return err
	},
}

var timingsCmd = &cobra.Command{
	Use:   "timings",
	Short: "List the full timetable of a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		location, rows, err := commands.NewTimingsCommand(catalog, corrector, loc, locationID).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(location.NameEn)
		var ashra domain.Ashra
		for _, row := range rows {
			if row.Ashra != ashra {
				ashra = row.Ashra
				fmt.Printf("\n%s\n", ashra)
			}
			marker := " "
			if row.IsToday {
				marker = "*"
			}
			r := row.Record
			fmt.Printf("%s %2d  %s  %-9s  %8s  %8s\n", marker, r.HijriDate, r.Date, r.DayEn,
				domain.FormatTo12h(r.Sehri), domain.FormatTo12h(r.Iftar))
		}
		return nil
	},
}

func countdownLine(c domain.Countdown) string {
	if c.Complete() {
		return c.Label
	}
	return fmt.Sprintf("%s in %s (at %s, %s)", c.Label, c.Clock(), domain.FormatTo12h(c.Record.Clock(c.Boundary)), c.Record.Date)
}

func init() {
	countdownCmd.Flags().BoolP("watch", "w", false, "keep counting and ring on alerts")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(countdownCmd)
	rootCmd.AddCommand(duasCmd)
	rootCmd.AddCommand(timingsCmd)
}
