// Package cmd provides the pagechat CLI commands.
//
// Commands:
//   - serve: HTTP API server for querying web pages
//   - mcp: Model Context Protocol server for assistant integration
//
// Signal handling and graceful shutdown are implemented for both servers via
// context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pagechat/pagechat/internal/log"
)

// Execute is the main entry point for the pagechat CLI.
func Execute() error {
	// Initialize the default logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("pagechat - Chat with any web page")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pagechat serve [addr]  Start HTTP API server (default: 127.0.0.1:8080)")
	fmt.Println("  pagechat mcp           Start MCP server (for Claude Desktop/Cursor)")
	fmt.Println("  pagechat --version     Show version information")
	fmt.Println("  pagechat --help        Show this help")
	fmt.Println()
	fmt.Println("API endpoints (serve mode):")
	fmt.Println("  POST /query            Ask a question about a URL")
	fmt.Println("  POST /reset            Clear the conversation for a URL")
	fmt.Println("  GET  /                 Liveness check")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY         Required for the googleai provider (default)")
	fmt.Println("  OPENAI_API_KEY         Required for the openai provider")
	fmt.Println("  PAGECHAT_PROVIDER      AI provider: googleai, openai, ollama")
	fmt.Println("  DEBUG                  Enable debug logging")
	fmt.Println()
	fmt.Println("Learn more: https://github.com/pagechat/pagechat")
}
