package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/firebase/genkit/go/genkit"
)

// NewGenkit initializes a plugin-free Genkit instance for tests. Mock models
// and embedders are registered against it with RegisterModel and
// RegisterEmbedder.
func NewGenkit(t *testing.T) *genkit.Genkit {
	t.Helper()
	return genkit.Init(context.Background())
}

// DiscardLogger returns a slog.Logger that discards all output.
// Equivalent to log.NewNop(); use this where importing internal/log would
// be awkward.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
