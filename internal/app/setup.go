package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"google.golang.org/genai"

	"github.com/pagechat/pagechat/internal/chat"
	"github.com/pagechat/pagechat/internal/config"
	"github.com/pagechat/pagechat/internal/ingest"
	"github.com/pagechat/pagechat/internal/log"
	"github.com/pagechat/pagechat/internal/observability"
	"github.com/pagechat/pagechat/internal/session"
	"github.com/pagechat/pagechat/internal/textsplit"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, logger: logger}

	// On error, release everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	fetcher := ingest.New(ingest.Config{
		UserAgent:    cfg.Scraper.UserAgent,
		Timeout:      time.Duration(cfg.Scraper.TimeoutMs) * time.Millisecond,
		MaxBodyBytes: cfg.Scraper.MaxBodyBytes,
	}, logger)
	splitter := textsplit.New(textsplit.DefaultChunkSize, textsplit.DefaultOverlap)

	a.Sessions = session.New(fetcher, splitter, embedder, logger)
	a.Chat = chat.New(g, a.Sessions, cfg.FullModelName(), provideGenerationConfig(cfg), logger)

	return a, nil
}

// provideOtelShutdown sets up trace export before Genkit initialization so
// the TracerProvider is ready when the first span is created.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLP.Endpoint,
		ServiceName: cfg.OTLP.ServiceName,
		Environment: cfg.OTLP.Environment,
	})
	if err != nil {
		logger.Warn("setting up trace export, tracing disabled", "error", err)
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports googleai (default), openai, and ollama.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // googleai
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with googleai provider")
		}
		logger.Info("initialized Genkit with googleai provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the AI provider plugin.
// Each provider registers embedders differently:
//   - googleai: GoogleAIEmbedder(g, modelName)
//   - ollama: registered in provideGenkit, keyed by server address
//   - openai: auto-registered in Init(), looked up by model name
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollama.Embedder(g, cfg.OllamaHost)
	case config.ProviderOpenAI:
		return genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
	default: // googleai
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}

// provideGenerationConfig builds the provider-specific generation settings.
// Answers must be reproducible for identical inputs, so the sampling
// temperature is pinned to zero everywhere.
func provideGenerationConfig(cfg *config.Config) any {
	switch cfg.Provider {
	case config.ProviderOllama, config.ProviderOpenAI:
		return map[string]any{"temperature": 0.0}
	default: // googleai
		return &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}
	}
}
