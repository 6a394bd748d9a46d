package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"curator/internal/application"
	"curator/internal/domain"
)

// RegisterWriteTools adds all mutating engine tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, engine *application.Engine) {
	s.AddTool(registerTool(), registerHandler(engine))
	s.AddTool(recordActionTool(), recordActionHandler(engine))
	s.AddTool(updateAnalysisTool(), updateAnalysisHandler(engine))
	s.AddTool(sweepTool(), sweepHandler(engine))
}

// --- register ---

func registerTool() mcp.Tool {
	return mcp.NewTool("register",
		mcp.WithDescription("Register a file for processing. Creates its registry entry or increments the processing count."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the file"),
			mcp.Required(),
		),
	)
}

func registerHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		fp, err := engine.RegisterForProcessing(path)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Registered %s (fingerprint %.8s)", path, fp)), nil
	}
}

// --- record_action ---

func recordActionTool() mcp.Tool {
	return mcp.NewTool("record_action",
		mcp.WithDescription("Record the user's decision about a file suggestion and start the cooldown window."),
		mcp.WithString("path",
			mcp.Description("Path the suggestion was made for"),
			mcp.Required(),
		),
		mcp.WithString("action",
			mcp.Description("One of: accepted, rejected, modified"),
			mcp.Required(),
		),
		mcp.WithString("new_path",
			mcp.Description("Where the file ended up, when it was relocated"),
		),
	)
}

func recordActionHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		action := req.GetString("action", "")
		newPath := req.GetString("new_path", "")
		if path == "" || action == "" {
			return toolError(fmt.Errorf("path and action are required"))
		}

		found, err := engine.RecordUserAction(path, domain.ParseUserAction(action), newPath)
		if err != nil {
			return toolError(err)
		}
		if !found {
			return mcp.NewToolResultText("Not in registry."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Recorded %s for %s", action, path)), nil
	}
}

// --- update_analysis ---

func updateAnalysisTool() mcp.Tool {
	return mcp.NewTool("update_analysis",
		mcp.WithDescription("Attach content-analysis results (category, keywords, summary) to a registered file; derives tags and a folder suggestion."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the registered file"),
			mcp.Required(),
		),
		mcp.WithString("category",
			mcp.Description("Content category, e.g. invoice, resume, report"),
		),
		mcp.WithArray("keywords",
			mcp.Description("Keywords extracted from the content"),
			mcp.WithStringItems(),
		),
		mcp.WithString("summary",
			mcp.Description("One-line content summary"),
		),
	)
}

func updateAnalysisHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		analysis := &domain.ContentAnalysis{
			Category:       req.GetString("category", ""),
			Keywords:       req.GetStringSlice("keywords", nil),
			ContentSummary: req.GetString("summary", ""),
		}

		found, err := engine.UpdateWithAnalysis(path, analysis)
		if err != nil {
			return toolError(err)
		}
		if !found {
			return mcp.NewToolResultText("Not in registry."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Updated analysis for %s", path)), nil
	}
}

// --- sweep ---

func sweepTool() mcp.Tool {
	return mcp.NewTool("sweep",
		mcp.WithDescription("Evict registry entries older than the retention period."),
	)
}

func sweepHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		evicted, err := engine.Sweep()
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Evicted %d entries", evicted)), nil
	}
}
