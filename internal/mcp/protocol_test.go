package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// connectServer creates an MCP server from the given config and an SDK client
// connected via in-memory transports. Returns the client session for making
// protocol calls. Both sessions are cleaned up via t.Cleanup.
func connectServer(t *testing.T, cfg Config) *mcp.ClientSession {
	t.Helper()

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() unexpected error: %v", err)
	}

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

// resultText extracts the first text content from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
	}
	return text.Text
}

// TestProtocol_ListTools verifies that the MCP JSON-RPC tools/list endpoint
// returns the page tools with descriptions.
func TestProtocol_ListTools(t *testing.T) {
	f := newFixture(t)
	cs := connectServer(t, f.cfg)

	result, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	var names []string
	for _, tool := range result.Tools {
		if tool.Description == "" {
			t.Errorf("ListTools() tool %q has empty description", tool.Name)
		}
		names = append(names, tool.Name)
	}
	sort.Strings(names)

	wantNames := []string{"page_query", "page_reset"}
	if len(names) != len(wantNames) {
		t.Fatalf("ListTools() returned %v, want %v", names, wantNames)
	}
	for i, got := range names {
		if got != wantNames[i] {
			t.Errorf("ListTools() tool[%d] = %q, want %q", i, got, wantNames[i])
		}
	}
}

// TestProtocol_PageQuery verifies that tools/call works end-to-end through
// the JSON-RPC layer and that follow-up calls share the conversation.
func TestProtocol_PageQuery(t *testing.T) {
	f := newFixture(t)
	f.llm.AddResponse("what did i just ask", "You asked what a context is.")
	f.llm.AddResponse("what is a context", "A context carries deadlines and cancellation signals.")
	cs := connectServer(t, f.cfg)

	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "page_query",
		Arguments: map[string]any{
			"url":   testPageURL,
			"query": "What is a context?",
		},
	})
	if err != nil {
		t.Fatalf("CallTool(page_query) unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("CallTool(page_query) returned error result: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "A context carries deadlines and cancellation signals." {
		t.Errorf("CallTool(page_query) answer = %q", got)
	}

	result, err = cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "page_query",
		Arguments: map[string]any{
			"url":   testPageURL,
			"query": "What did I just ask?",
		},
	})
	if err != nil {
		t.Fatalf("CallTool(page_query) second call: %v", err)
	}
	if result.IsError {
		t.Fatalf("CallTool(page_query) second call returned error result: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "You asked what a context is." {
		t.Errorf("CallTool(page_query) follow-up answer = %q", got)
	}

	if !strings.Contains(f.llm.LastPrompt(), "Human: What is a context?") {
		t.Errorf("follow-up prompt missing first exchange:\n%s", f.llm.LastPrompt())
	}
	if f.fetcher.FetchCount() != 1 {
		t.Errorf("fetch count = %d, want 1 (page indexed once)", f.fetcher.FetchCount())
	}
}

// TestProtocol_PageQuery_IngestionError verifies that unreadable pages come
// back as error results carrying the user-facing message.
func TestProtocol_PageQuery_IngestionError(t *testing.T) {
	f := newFixture(t)
	cs := connectServer(t, f.cfg)

	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "page_query",
		Arguments: map[string]any{
			"url":   "https://unreachable.example.com",
			"query": "Hello?",
		},
	})
	if err != nil {
		t.Fatalf("CallTool(page_query) unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("CallTool(page_query) unreachable page should produce an error result")
	}
	if got := resultText(t, result); got != "Failed to load content from the provided URL" {
		t.Errorf("CallTool(page_query) message = %q", got)
	}
}

// TestProtocol_PageReset verifies both reset outcomes through the JSON-RPC
// layer.
func TestProtocol_PageReset(t *testing.T) {
	f := newFixture(t)
	cs := connectServer(t, f.cfg)

	callReset := func() map[string]any {
		t.Helper()
		result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "page_reset",
			Arguments: map[string]any{"url": testPageURL},
		})
		if err != nil {
			t.Fatalf("CallTool(page_reset) unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("CallTool(page_reset) returned error result: %s", resultText(t, result))
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(resultText(t, result)), &parsed); err != nil {
			t.Fatalf("CallTool(page_reset) parsing JSON: %v", err)
		}
		return parsed
	}

	// No session yet.
	got := callReset()
	if got["status"] != "not_found" {
		t.Errorf("page_reset status = %v, want not_found", got["status"])
	}
	if got["message"] != "No chat history found for this URL" {
		t.Errorf("page_reset message = %v", got["message"])
	}

	// Create the session, then reset it.
	if _, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "page_query",
		Arguments: map[string]any{"url": testPageURL, "query": "Hi"},
	}); err != nil {
		t.Fatalf("CallTool(page_query) unexpected error: %v", err)
	}

	got = callReset()
	if got["status"] != "reset" {
		t.Errorf("page_reset status = %v, want reset", got["status"])
	}
	if got["message"] != "Chat history for "+testPageURL+" has been cleared" {
		t.Errorf("page_reset message = %v", got["message"])
	}
}

// TestProtocol_UnknownTool verifies that calling a non-existent tool returns
// a proper error through the JSON-RPC layer.
func TestProtocol_UnknownTool(t *testing.T) {
	f := newFixture(t)
	cs := connectServer(t, f.cfg)

	_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "nonexistent_tool",
	})
	if err == nil {
		t.Fatal("CallTool(nonexistent_tool) expected error, got nil")
	}
	if !strings.Contains(err.Error(), "nonexistent_tool") {
		t.Errorf("CallTool(nonexistent_tool) error = %q, want to contain tool name", err.Error())
	}
}
