package mcp

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult wraps plain text in a successful MCP tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps a user-facing message in an error tool result. The
// assistant sees the text and can react to it; protocol-level errors are
// reserved for system failures.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// jsonResult marshals data to JSON text in a successful MCP tool result.
// Clients parse the text; all structured output goes through here.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.Marshal(data)
	if err != nil {
		return errorResult("marshal error")
	}
	return textResult(string(b))
}
