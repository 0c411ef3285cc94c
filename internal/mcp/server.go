package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pagechat/pagechat/internal/chat"
	"github.com/pagechat/pagechat/internal/session"
)

// Server wraps the MCP SDK server around the chat service.
type Server struct {
	mcpServer *mcp.Server
	chat      *chat.Service
	sessions  *session.Store
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name     string
	Version  string
	Chat     *chat.Service
	Sessions *session.Store
}

// NewServer creates an MCP server with the page tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, errors.New("server name is required")
	}
	if cfg.Version == "" {
		return nil, errors.New("server version is required")
	}
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		chat:     cfg.Chat,
		sessions: cfg.Sessions,
		name:     cfg.Name,
		version:  cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}
