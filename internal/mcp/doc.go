// Package mcp implements a Model Context Protocol (MCP) server.
//
// The MCP server exposes page conversations to MCP clients (Claude Desktop,
// Cursor, the Genkit CLI, and others): an assistant hands a URL to page_query
// and converses about the page exactly the way HTTP API clients do. Both
// surfaces share one session store, so a conversation started over MCP
// continues over HTTP and vice versa.
//
// # Tools
//
//   - page_query: ask a question about a web page. The page is fetched and
//     indexed on first use; later questions on the same URL continue the
//     conversation.
//   - page_reset: clear the conversation history for a URL. The indexed page
//     content is kept, so the next question starts fresh without re-fetching.
//
// # Error handling
//
// The server distinguishes two kinds of failures, mirroring the HTTP API:
//
//   - Ingestion failures (unreachable page, no readable content) come back as
//     a tool result with IsError set. The calling assistant sees the message
//     and can relay it or try a different URL.
//   - Generation failures are protocol errors: they indicate provider or
//     configuration problems no retry from the assistant can fix.
//
// # Thread safety
//
// The server is safe for concurrent use. Transport and message handling are
// managed by the MCP SDK; session access is serialized by the store.
package mcp
