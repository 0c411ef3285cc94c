// Package app assembles the application from configuration: the AI provider
// plugin, the session store, and the chat service.
//
// Setup builds everything in dependency order and returns an App whose
// components are ready to use. Entry points (HTTP server, MCP server) consume
// the App rather than constructing components themselves.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/pagechat/pagechat/internal/chat"
	"github.com/pagechat/pagechat/internal/config"
	"github.com/pagechat/pagechat/internal/log"
	"github.com/pagechat/pagechat/internal/session"
)

// App is the assembled application container.
type App struct {
	Config   *config.Config
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	Sessions *session.Store
	Chat     *chat.Service

	logger      log.Logger
	otelCleanup func()
}

// Close releases application resources and flushes pending telemetry.
// Safe to call on a partially initialized App.
func (a *App) Close() error {
	if a.logger != nil {
		a.logger.Info("shutting down application")
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}
