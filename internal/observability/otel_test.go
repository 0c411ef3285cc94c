package observability

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Setup(ctx, Config{ServiceName: "test-service"})

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
}

func TestSetup_CustomEndpoint(t *testing.T) {
	cfg := Config{
		Endpoint:    "localhost:4318",
		Environment: "staging",
		ServiceName: "custom-service",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// No spans were recorded, so the flush has nothing to export even when
	// nothing listens on the endpoint.
	assert.NoError(t, shutdown(ctx))
}

func TestSetup_ExportsServiceIdentity(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "")

	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{
		Endpoint:    "localhost:4318",
		ServiceName: "pagechat-test",
		Environment: "test",
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(ctx) }()

	assert.Equal(t, "pagechat-test", os.Getenv("OTEL_SERVICE_NAME"))
	assert.Equal(t, "deployment.environment=test", os.Getenv("OTEL_RESOURCE_ATTRIBUTES"))
}

func TestSetup_DisabledLeavesEnvironmentAlone(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "preexisting")

	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{ServiceName: "ignored"})
	require.NoError(t, err)
	defer func() { _ = shutdown(ctx) }()

	assert.Equal(t, "preexisting", os.Getenv("OTEL_SERVICE_NAME"))
}
