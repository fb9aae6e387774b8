package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rozadaar/internal/application"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// Deps are the services the tools operate on. Reconciler may be nil, in
// which case the write tools are not registered. The stats tool needs
// Analytics and Secret.
type Deps struct {
	Catalog    *application.Catalog
	Clock      ports.Clock
	Loc        *time.Location
	Reconciler *reconcile.Reconciler
	Analytics  ports.AnalyticsClient
	Secret     string
}

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(countdownTool(), countdownHandler(deps))
	s.AddTool(todayTool(), todayHandler(deps))
	s.AddTool(timingsTool(), timingsHandler(deps))
	s.AddTool(locationsTool(), locationsHandler(deps))
	s.AddTool(notesTool(), notesHandler(deps))
	s.AddTool(validateTool(), validateHandler(deps))
	s.AddTool(duasTool(), duasHandler(deps))
	if deps.Analytics != nil && deps.Secret != "" {
		s.AddTool(statsTool(), statsHandler(deps))
	}
}

// --- countdown ---

func countdownTool() mcp.Tool {
	return mcp.NewTool("countdown",
		mcp.WithDescription("Time remaining until the next Sehri or Iftar for a location."),
		mcp.WithString("location_id",
			mcp.Description("Location id (e.g. sunwarian). Omit to use the selected location."),
		),
	)
}

func countdownHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewTodayCommand(deps.Catalog, deps.Clock, deps.Loc, req.GetString("location_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatCountdown(result.Location, result.Countdown, deps.Loc)), nil
	}
}

// --- today ---

func todayTool() mcp.Tool {
	return mcp.NewTool("today",
		mcp.WithDescription("Today's Sehri and Iftar times, Ashra, and notes for a location."),
		mcp.WithString("location_id",
			mcp.Description("Location id. Omit to use the selected location."),
		),
	)
}

func todayHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewTodayCommand(deps.Catalog, deps.Clock, deps.Loc, req.GetString("location_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\n", result.Location.NameEn)
		if result.HasRecord {
			r := result.Record
			fmt.Fprintf(&sb, "%s  Roza %d  %s\n", r.Date, r.HijriDate, result.Ashra)
			fmt.Fprintf(&sb, "Sehri %s  Iftar %s\n", domain.FormatTo12h(r.Sehri), domain.FormatTo12h(r.Iftar))
		} else {
			sb.WriteString("No timetable entry for today.\n")
		}
		sb.WriteString(formatCountdown(result.Location, result.Countdown, deps.Loc))
		for _, n := range result.Notes {
			fmt.Fprintf(&sb, "- [%s] %s\n", n.Type, n.Text.En)
		}
		if !result.Verified {
			sb.WriteString("(device clock, not verified)\n")
		}
		fmt.Fprintf(&sb, "Support: %s\nCommunity: %s\n", result.Location.SupportURL(), result.Location.CommunityURL())
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- timings ---

func timingsTool() mcp.Tool {
	return mcp.NewTool("timings",
		mcp.WithDescription("The full Ramadan timetable for a location."),
		mcp.WithString("location_id",
			mcp.Description("Location id. Omit to use the selected location."),
		),
	)
}

func timingsHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location, rows, err := commands.NewTimingsCommand(deps.Catalog, deps.Clock, deps.Loc, req.GetString("location_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(rows) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("%s has no timetable.", location.NameEn)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\n", location.NameEn)
		for _, row := range rows {
			marker := " "
			if row.IsToday {
				marker = "*"
			}
			r := row.Record
			fmt.Fprintf(&sb, "%s %2d  %s  %-9s  Sehri %s  Iftar %s\n",
				marker, r.HijriDate, r.Date, r.DayEn, domain.FormatTo12h(r.Sehri), domain.FormatTo12h(r.Iftar))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- locations ---

func locationsTool() mcp.Tool {
	return mcp.NewTool("locations",
		mcp.WithDescription("List the known locations, optionally filtered by name or id."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive filter"),
		),
	)
}

func locationsHandler(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		locs := domain.SearchLocations(deps.Catalog.Locations(), req.GetString("query", ""))
		selected := deps.Catalog.Settings().SelectedLocationID
		return formatEntities(locs, func(l domain.Location) string {
			marker := " "
			if l.ID == selected {
				marker = "*"
			}
			return fmt.Sprintf("%s %s  %s  (%d days)", marker, l.ID, l.NameEn, len(l.Timings))
		})
	}
}

// --- notes ---

func notesTool() mcp.Tool {
	return mcp.NewTool("notes",
		mcp.WithDescription("Notes and guides shown for a location: location notes first, then global ones."),
		mcp.WithString("location_id",
			mcp.Description("Location id. Omit to use the selected location."),
		),
	)
}

func notesHandler(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location := deps.Catalog.Selected()
		if id := req.GetString("location_id", ""); id != "" {
			l, err := deps.Catalog.Location(id)
			if err != nil {
				return toolError(err)
			}
			location = l
		}
		return formatEntities(domain.VisibleNotes(deps.Catalog.Notes(), location.ID), formatNote)
	}
}

// --- validate ---

func validateTool() mcp.Tool {
	return mcp.NewTool("validate",
		mcp.WithDescription("Check cached timetables for unordered, duplicate, or malformed days."),
		mcp.WithString("location_id",
			mcp.Description("Location id. Omit to check every location."),
		),
	)
}

func validateHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewValidateCommand(deps.Catalog, req.GetString("location_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.OK() {
			return mcp.NewToolResultText(fmt.Sprintf("%d location(s) checked, no problems.", result.Checked)), nil
		}

		var sb strings.Builder
		for _, id := range result.LocationIDs() {
			for _, v := range result.Violations[id] {
				fmt.Fprintf(&sb, "%s: %s\n", id, v)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatCountdown(location domain.Location, c domain.Countdown, loc *time.Location) string {
	if c.Complete() {
		return fmt.Sprintf("%s: %s\n", location.NameEn, c.Label)
	}
	return fmt.Sprintf("%s in %s (at %s)\n", c.Label, c.Clock(), c.Target.In(loc).Format("03:04 PM, Jan 2"))
}

func formatNote(n domain.Note) string {
	scope := "global"
	if !n.IsGlobal {
		scope = n.LocationID
	}
	return fmt.Sprintf("%s  [%s, %s]  %s", n.ID, n.Type, scope, n.Text.En)
}

// --- duas ---

func duasTool() mcp.Tool {
	return mcp.NewTool("duas",
		mcp.WithDescription("The Sehri or Iftar dua for the boundary being approached, and the dua of the current Ashra."),
		mcp.WithString("location_id",
			mcp.Description("Location id. Omit to use the selected location."),
		),
		mcp.WithString("language",
			mcp.Description("Translation language"),
			mcp.Enum("en", "ur"),
		),
	)
}

func duasHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewTodayCommand(deps.Catalog, deps.Clock, deps.Loc, req.GetString("location_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		lang := req.GetString("language", deps.Catalog.Settings().Language)
		var sb strings.Builder
		for _, d := range domain.DuasOf(result.Countdown) {
			fmt.Fprintf(&sb, "%s\n%s\n%s\n\n", d.Title.En, d.Arabic, d.Translation(lang))
		}
		return mcp.NewToolResultText(strings.TrimSpace(sb.String())), nil
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Visit analytics from the remote server: visitors, installs, recent activity and platforms."),
		mcp.WithString("period",
			mcp.Description("List visitors seen in this period instead of the dashboard"),
			mcp.Enum(string(domain.PeriodToday), string(domain.PeriodWeek), string(domain.PeriodMonth), string(domain.PeriodLifetime)),
		),
		mcp.WithBoolean("installed",
			mcp.Description("With period, only list installed visitors"),
		),
	)
}

func statsHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if p := req.GetString("period", ""); p != "" {
			period, err := domain.ParsePeriod(p)
			if err != nil {
				return toolError(err)
			}
			page, err := deps.Analytics.Visitors(ctx, deps.Secret, domain.VisitorQuery{
				Period:        period,
				InstalledOnly: req.GetBool("installed", false),
			})
			if err != nil {
				return toolError(err)
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "%d visitor(s) seen %s\n", page.Total, period)
			for _, v := range page.Users {
				fmt.Fprintf(&sb, "- %s  %s  %d visits  last %s\n", v.VisitorID, v.Platform, v.VisitCount, v.LastSeen.Format(time.RFC3339))
			}
			return mcp.NewToolResultText(sb.String()), nil
		}

		report, err := deps.Analytics.Stats(ctx, deps.Secret)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		o, m := report.Overall, report.Metrics
		fmt.Fprintf(&sb, "Visitors %d, installed %d (%.1f%%)\n", o.TotalUsers, o.InstalledUsers, o.InstallRate)
		fmt.Fprintf(&sb, "Visits today %d, week %d, month %d, lifetime %d\n", m.Today.Visits, m.Week.Visits, m.Month.Visits, m.Lifetime.Visits)
		fmt.Fprintf(&sb, "New visitors today %d, week %d, month %d\n", m.Today.NewUsers, m.Week.NewUsers, m.Month.NewUsers)
		for _, p := range report.Platforms {
			fmt.Fprintf(&sb, "- %s: %d\n", p.Platform, p.Count)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
