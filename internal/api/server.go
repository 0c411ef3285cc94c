package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pagechat/pagechat/internal/chat"
	"github.com/pagechat/pagechat/internal/session"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Chat        *chat.Service  // Required
	Sessions    *session.Store // Required
	CORSOrigins []string       // Allowed origins; "*" allows any
	TrustProxy  bool           // Trust X-Real-IP/X-Forwarded-For (behind reverse proxy)
	RateBurst   int            // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux http.Handler
}

// NewServer creates a server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handler{
		chat:     cfg.Chat,
		sessions: cfg.Sessions,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /query", h.query)
	mux.HandleFunc("POST /reset", h.reset)
	mux.HandleFunc("GET /{$}", h.liveness)

	// Rate limiter: per-IP token bucket (1 token/sec refill).
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID sits before Logging so request_id is available in log
	// attributes; CORS sits before RateLimit so preflight OPTIONS is
	// never rate limited.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	return &Server{mux: handler}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
