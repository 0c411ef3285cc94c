package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pagechat/pagechat/internal/session"
)

// QueryInput defines input for the page_query tool.
type QueryInput struct {
	URL   string `json:"url" jsonschema_description:"The URL of the web page to ask about"`
	Query string `json:"query" jsonschema_description:"The question to ask about the page"`
}

// ResetInput defines input for the page_reset tool.
type ResetInput struct {
	URL string `json:"url" jsonschema_description:"The URL whose conversation history should be cleared"`
}

// registerTools registers the page tools to the MCP server.
// Tools: page_query, page_reset
func (s *Server) registerTools() error {
	querySchema, err := jsonschema.For[QueryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for page_query: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "page_query",
		Description: "Ask a question about a web page. The page is fetched and indexed " +
			"on first use; later questions on the same URL continue the conversation.",
		InputSchema: querySchema,
	}, s.PageQuery)

	resetSchema, err := jsonschema.For[ResetInput](nil)
	if err != nil {
		return fmt.Errorf("schema for page_reset: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "page_reset",
		Description: "Clear the conversation history for a URL. The indexed page content " +
			"is kept, so the next question starts fresh without re-fetching the page.",
		InputSchema: resetSchema,
	}, s.PageReset)

	return nil
}

// PageQuery handles the page_query MCP tool call.
func (s *Server) PageQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.URL) == "" || strings.TrimSpace(input.Query) == "" {
		return errorResult("url and query are required"), nil, nil
	}

	answer, err := s.chat.Answer(ctx, input.URL, input.Query)
	if err != nil {
		// Ingestion failures carry a user-facing message the assistant can act
		// on; everything else is a system problem and goes up the protocol.
		if session.IsIngestionError(err) {
			return errorResult(err.Error()), nil, nil
		}
		return nil, nil, fmt.Errorf("page_query failed: %w", err)
	}

	return textResult(answer), nil, nil
}

// PageReset handles the page_reset MCP tool call.
func (s *Server) PageReset(_ context.Context, _ *mcp.CallToolRequest, input ResetInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.URL) == "" {
		return errorResult("url is required"), nil, nil
	}

	status, message := "not_found", "No chat history found for this URL"
	if s.sessions.Reset(input.URL) {
		status = "reset"
		message = fmt.Sprintf("Chat history for %s has been cleared", input.URL)
	}

	return jsonResult(map[string]string{
		"status":  status,
		"message": message,
	}), nil, nil
}
