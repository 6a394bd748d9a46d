package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"curator/internal/application"
	"curator/internal/domain"
)

// RegisterReadTools adds all read-only engine tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, engine *application.Engine) {
	s.AddTool(analyzeDuplicatesTool(), analyzeDuplicatesHandler(engine))
	s.AddTool(tagsTool(), tagsHandler(engine))
	s.AddTool(suggestFolderTool(), suggestFolderHandler(engine))
	s.AddTool(historyTool(), historyHandler(engine))
	s.AddTool(statsTool(), statsHandler(engine))
}

// --- analyze_duplicates ---

func analyzeDuplicatesTool() mcp.Tool {
	return mcp.NewTool("analyze_duplicates",
		mcp.WithDescription("Check a file against the registry for exact duplicates and similarly named files, and recommend which copy to keep."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the file to check"),
			mcp.Required(),
		),
	)
}

func analyzeDuplicatesHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		return mcp.NewToolResultText(formatDuplicates(engine.AnalyzeDuplicates(path))), nil
	}
}

func formatDuplicates(a domain.DuplicateAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "duplicate: %t (confidence %.1f)\n", a.IsDuplicate, a.Confidence)
	fmt.Fprintf(&sb, "action: %s\n", a.Action)
	fmt.Fprintf(&sb, "reason: %s\n", a.Reason)
	for _, p := range a.DuplicateFiles {
		fmt.Fprintf(&sb, "exact: %s\n", p)
	}
	for _, p := range a.SimilarFiles {
		fmt.Fprintf(&sb, "similar: %s\n", p)
	}
	if a.BetterVersion != nil {
		fmt.Fprintf(&sb, "better version: %s (%s)\n", a.BetterVersion.FilePath, a.BetterVersion.Reason)
	}
	return sb.String()
}

// --- tags ---

func tagsTool() mcp.Tool {
	return mcp.NewTool("tags",
		mcp.WithDescription("Derive descriptive tags for a file from its name, folder, timestamps, and any stored content analysis."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the file to tag"),
			mcp.Required(),
		),
	)
}

func tagsHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		tags := engine.GenerateTags(path)
		if len(tags) == 0 {
			return mcp.NewToolResultText("No tags."), nil
		}

		var sb strings.Builder
		for _, t := range tags {
			fmt.Fprintf(&sb, "%s  %.1f  %s\n", t.Tag, t.Confidence, t.Source)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- suggest_folder ---

func suggestFolderTool() mcp.Tool {
	return mcp.NewTool("suggest_folder",
		mcp.WithDescription("Recommend a destination folder for a file, based on its content category and where similar files already live."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the file"),
			mcp.Required(),
		),
	)
}

func suggestFolderHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		s := engine.SuggestFolder(path)
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s (confidence %.1f, %s)\n", s.SuggestedPath, s.Confidence, s.BasedOn)
		fmt.Fprintf(&sb, "reason: %s\n", s.Reasoning)
		for _, alt := range s.Alternatives {
			fmt.Fprintf(&sb, "alternative: %s\n", alt)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("Show the registry record for a path: processing history, user decision, cooldown, and enrichment."),
		mcp.WithString("path",
			mcp.Description("Absolute path previously seen by the engine"),
			mcp.Required(),
		),
	)
}

func historyHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		entry := engine.History(path)
		if entry == nil {
			return mcp.NewToolResultText("Not in registry."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "fingerprint: %s\n", entry.Fingerprint)
		fmt.Fprintf(&sb, "original path: %s\n", entry.OriginalPath)
		fmt.Fprintf(&sb, "current path: %s\n", entry.CurrentPath)
		fmt.Fprintf(&sb, "user action: %s (processed %s)\n", entry.UserAction, entry.ProcessedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&sb, "processing count: %d\n", entry.ProcessingCount)
		if !entry.IgnoredUntil.IsZero() {
			fmt.Fprintf(&sb, "cooldown until: %s\n", entry.IgnoredUntil.Format("2006-01-02 15:04:05"))
		}
		if entry.FileCategory != "" {
			fmt.Fprintf(&sb, "category: %s\n", entry.FileCategory)
		}
		if len(entry.ContentTags) > 0 {
			fmt.Fprintf(&sb, "tags: %s\n", strings.Join(entry.ContentTags, ", "))
		}
		if entry.SuggestedFolder != "" {
			fmt.Fprintf(&sb, "suggested folder: %s\n", entry.SuggestedFolder)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Aggregate registry counters: total, per user action, and in cooldown."),
	)
}

func statsHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := engine.Stats()
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"total: %d\npending: %d\naccepted: %d\nrejected: %d\nmodified: %d\nin cooldown: %d\n",
			stats.Total, stats.Pending, stats.Accepted, stats.Rejected, stats.Modified, stats.InCooldown,
		)), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
