package pname

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers validate_name, parse_name, compare_names and
// sort_names as MCP tools on the given MCP server.
func RegisterMCPTools(mcpServer *server.MCPServer, p *Processor) {
	// validate_name tool
	validateTool := mcp.NewTool("validate_name",
		mcp.WithDescription(`Check whether a person name is written as "Family, Given Given2". Returns the canonical form or the rejection reason.`),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description(`The name to check, e.g. "Smith, John Paul"`),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(validateTool, p.loggedToolHandler("validate_name", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name parameter is required"), nil
		}
		// A rejected name is a normal result here, not a tool error.
		return jsonResult(p.Validate(ValidateInput{Name: name}), "failed to marshal validate result")
	}))

	// parse_name tool
	parseTool := mcp.NewTool("parse_name",
		mcp.WithDescription("Split a person name into family name, given names, canonical form, display form and hash."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description(`The name to parse, e.g. "Smith, John Paul"`),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(parseTool, p.loggedToolHandler("parse_name", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name parameter is required"), nil
		}
		output := p.Parse(ParseInput{Name: name})
		if output.Error != "" {
			return mcp.NewToolResultError(output.Error), nil
		}
		return jsonResult(output, "failed to marshal parse result")
	}))

	// compare_names tool
	compareTool := mcp.NewTool("compare_names",
		mcp.WithDescription("Compare two person names by family name, then by given names. Returns -1, 0 or 1."),
		mcp.WithString("a",
			mcp.Required(),
			mcp.Description("The first name"),
		),
		mcp.WithString("b",
			mcp.Required(),
			mcp.Description("The second name"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(compareTool, p.loggedToolHandler("compare_names", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, err := req.RequireString("a")
		if err != nil {
			return mcp.NewToolResultError("a parameter is required"), nil
		}
		b, err := req.RequireString("b")
		if err != nil {
			return mcp.NewToolResultError("b parameter is required"), nil
		}
		output := p.Compare(CompareInput{A: a, B: b})
		if output.Error != "" {
			return mcp.NewToolResultError(output.Error), nil
		}
		return jsonResult(output, "failed to marshal compare result")
	}))

	// sort_names tool
	sortTool := mcp.NewTool("sort_names",
		mcp.WithDescription("Sort person names by family name, then by given names. Invalid names are reported separately."),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("The names to sort"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(sortTool, p.loggedToolHandler("sort_names", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := req.RequireStringSlice("names")
		if err != nil {
			return mcp.NewToolResultError("names parameter must be an array of strings"), nil
		}
		output := p.Sort(SortInput{Names: names})
		if output.Error != "" {
			return mcp.NewToolResultError(output.Error), nil
		}
		return jsonResult(output, "failed to marshal sort result")
	}))
}

func jsonResult(v any, failure string) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(failure), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (p *Processor) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		p.logger.Info().
			Str("tool", tool).
			Str("call_id", callID).
			Int("request_bytes", reqLen).
			Int("response_bytes", resultLength(result)).
			Bool("is_error", result != nil && result.IsError).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
