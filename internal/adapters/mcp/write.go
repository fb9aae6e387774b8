package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

// RegisterWriteTools adds the tools that change local or remote state.
// Nothing is registered without a reconciler.
func RegisterWriteTools(s *server.MCPServer, deps Deps) {
	if deps.Reconciler == nil {
		return
	}
	s.AddTool(syncTool(), syncHandler(deps))
	s.AddTool(addNoteTool(), addNoteHandler(deps))
	s.AddTool(deleteNoteTool(), deleteNoteHandler(deps))
	s.AddTool(setSettingTool(), setSettingHandler(deps))
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Fetch locations and notes from the remote source and merge them into the local cache."),
	)
}

func syncHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := deps.Reconciler.SyncOnce(ctx)
		if err != nil {
			return toolError(err)
		}

		var parts []string
		if result.LocationsChanged {
			parts = append(parts, "locations updated")
		}
		if result.NotesChanged {
			parts = append(parts, "notes updated")
		}
		for _, c := range result.Rejected {
			parts = append(parts, c+" rejected")
		}
		if len(result.Pending) > 0 {
			parts = append(parts, "kept local edits of "+strings.Join(result.Pending, ", "))
		}
		if len(parts) == 0 {
			parts = append(parts, "already up to date")
		}
		return mcp.NewToolResultText(strings.Join(parts, ", ")), nil
	}
}

// --- add_note ---

func addNoteTool() mcp.Tool {
	return mcp.NewTool("add_note",
		mcp.WithDescription("Publish a note or guide. Requires the admin secret to be configured."),
		mcp.WithString("text",
			mcp.Description("English text"),
			mcp.Required(),
		),
		mcp.WithString("text_ur",
			mcp.Description("Urdu text"),
		),
		mcp.WithString("location_id",
			mcp.Description("Attach to a location. Omit for a global note."),
		),
		mcp.WithString("type",
			mcp.Description("note or guide"),
			mcp.Enum(domain.NoteTypeNote, domain.NoteTypeGuide),
		),
	)
}

func addNoteHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := domain.LocalizedText{
			En: req.GetString("text", ""),
			Ur: req.GetString("text_ur", ""),
		}
		cmd := commands.NewAddNoteCommand(deps.Reconciler, deps.Catalog, deps.Secret, text,
			req.GetString("location_id", ""), req.GetString("type", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_note ---

func deleteNoteTool() mcp.Tool {
	return mcp.NewTool("delete_note",
		mcp.WithDescription("Remove a note by id. Requires the admin secret to be configured."),
		mcp.WithString("id",
			mcp.Description("Note id (e.g. note_0b5c...)"),
			mcp.Required(),
		),
	)
}

func deleteNoteHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if err := commands.NewDeleteNoteCommand(deps.Reconciler, deps.Catalog, deps.Secret, id).Execute(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted note %s", id)), nil
	}
}

// --- set_setting ---

func setSettingTool() mcp.Tool {
	return mcp.NewTool("set_setting",
		mcp.WithDescription("Change a device preference."),
		mcp.WithString("name",
			mcp.Description("Setting name"),
			mcp.Required(),
			mcp.Enum(commands.SettingNames()...),
		),
		mcp.WithString("value",
			mcp.Description("New value"),
			mcp.Required(),
		),
	)
}

func setSettingHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		value := req.GetString("value", "")
		if _, err := commands.NewSetSettingCommand(deps.Catalog, name, value).Execute(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s = %s", name, value)), nil
	}
}
