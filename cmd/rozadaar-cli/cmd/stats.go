package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rozadaar/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show visit analytics from the remote server (admin)",
	Long: `Show the analytics dashboard collected by rozadaar-server: visitor and
install totals, visits today, this week and this month, the last 30 days,
platforms, and the most recent visitors.

Examples:
  rozadaar-cli stats
  rozadaar-cli stats users --period week --installed
  rozadaar-cli stats user 7f9c1c2e-8a9d-4c55-9f1e-2d3b4a5c6d7e`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := remote.Stats(context.Background(), adminSecret())
		if err != nil {
			return err
		}

		o := report.Overall
		fmt.Printf("Visitors   %d\nInstalled  %d (%.1f%%)\n\n", o.TotalUsers, o.InstalledUsers, o.InstallRate)

		fmt.Printf("%-9s %7s %9s %9s %9s\n", "", "visits", "visitors", "new", "installs")
		m := report.Metrics
		for _, row := range []struct {
			name string
			t    domain.Totals
		}{{"today", m.Today}, {"week", m.Week}, {"month", m.Month}, {"lifetime", m.Lifetime}} {
			fmt.Printf("%-9s %7d %9d %9d %9d\n", row.name, row.t.Visits, row.t.Visitors, row.t.NewUsers, row.t.Installs)
		}

		if len(report.History) > 0 {
			fmt.Println("\nLast 30 days")
			for _, d := range report.History {
				fmt.Printf("  %s  %5d hits  %4d new  %4d installs\n", d.Date, d.TotalHits, d.NewUsers, d.InstallCount)
			}
		}
		if len(report.Platforms) > 0 {
			fmt.Println("\nPlatforms")
			for _, p := range report.Platforms {
				fmt.Printf("  %-10s %d\n", p.Platform, p.Count)
			}
		}
		if len(report.RecentUsers) > 0 {
			fmt.Println("\nRecent visitors")
			for _, v := range report.RecentUsers {
				printVisitorLine(v)
			}
		}
		return nil
	},
}

var statsUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List visitors, most recently seen first",
	RunE: func(cmd *cobra.Command, args []string) error {
		periodFlag, _ := cmd.Flags().GetString("period")
		installed, _ := cmd.Flags().GetBool("installed")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		period, err := domain.ParsePeriod(periodFlag)
		if err != nil {
			return err
		}

		result, err := remote.Visitors(context.Background(), adminSecret(), domain.VisitorQuery{
			Period:        period,
			InstalledOnly: installed,
			Page:          page,
			Limit:         limit,
		})
		if err != nil {
			return err
		}
		if len(result.Users) == 0 {
			fmt.Println("No visitors.")
			return nil
		}
		for _, v := range result.Users {
			printVisitorLine(v)
		}
		fmt.Printf("\nPage %d of %d (%d visitors)\n", result.Page, result.TotalPages, result.Total)
		return nil
	},
}

var statsUserCmd = &cobra.Command{
	Use:   "user <visitor-id>",
	Short: "Show one visitor's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := remote.Visitor(context.Background(), adminSecret(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Visitor     %s\n", v.VisitorID)
		fmt.Printf("Platform    %s\n", v.Platform)
		fmt.Printf("Installed   %v\n", v.IsInstalled)
		fmt.Printf("Location    %s\n", v.LocationID)
		fmt.Printf("Language    %s\n", v.Language)
		fmt.Printf("Visits      %d\n", v.VisitCount)
		fmt.Printf("First seen  %s\n", v.FirstSeen.In(loc).Format("2006-01-02 15:04"))
		fmt.Printf("Last seen   %s\n", v.LastSeen.In(loc).Format("2006-01-02 15:04"))
		fmt.Printf("IP          %s\n", v.IP)
		fmt.Printf("User agent  %s\n", v.UserAgent)
		return nil
	},
}

func printVisitorLine(v domain.Visitor) {
	installed := " "
	if v.IsInstalled {
		installed = "*"
	}
	fmt.Printf("%s %-36s  %-8s  %4d visits  last %s\n",
		installed, v.VisitorID, v.Platform, v.VisitCount, v.LastSeen.In(loc).Format("2006-01-02 15:04"))
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsUsersCmd)
	statsCmd.AddCommand(statsUserCmd)

	statsUsersCmd.Flags().String("period", "lifetime", "today, week, month or lifetime")
	statsUsersCmd.Flags().Bool("installed", false, "only visitors running the daemon")
	statsUsersCmd.Flags().Int("page", 1, "page number")
	statsUsersCmd.Flags().Int("limit", domain.DefaultVisitorPageSize, "visitors per page")
}
