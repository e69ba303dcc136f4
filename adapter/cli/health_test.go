package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisracha/blazor-todo/pkg/observability"
)

func runHealth(t *testing.T, a *App) (string, error) {
	t.Helper()
	SetApp(a)
	t.Cleanup(func() { SetApp(nil) })

	var out bytes.Buffer
	healthCmd.SetOut(&out)
	healthCmd.SetContext(context.Background())
	err := healthCmd.RunE(healthCmd, nil)
	return out.String(), err
}

func TestHealthCmd_NoApp(t *testing.T) {
	_, err := runHealth(t, nil)
	assert.ErrorContains(t, err, "app not initialized")
}

func TestHealthCmd_WithoutReporter(t *testing.T) {
	out, err := runHealth(t, &App{})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestHealthCmd_ReportsChecks(t *testing.T) {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.DatabaseHealthChecker(func(context.Context) error { return nil }))
	registry.Register("cache", observability.CacheHealthChecker(func(context.Context) error { return assert.AnError }))

	out, err := runHealth(t, (&App{}).WithHealth(registry))
	require.NoError(t, err)
	assert.Contains(t, out, "status: degraded")
	assert.Contains(t, out, "cache      degraded (cache connection failed")
	assert.Contains(t, out, "database   healthy (database connection healthy)")
	assert.Less(t, bytes.Index([]byte(out), []byte("cache")), bytes.Index([]byte(out), []byte("database")))
}

func TestHealthCmd_UnhealthyFails(t *testing.T) {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.DatabaseHealthChecker(func(context.Context) error { return assert.AnError }))

	out, err := runHealth(t, (&App{}).WithHealth(registry))
	assert.ErrorContains(t, err, "service unhealthy")
	assert.Contains(t, out, "status: unhealthy")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "todo dev")
	assert.Contains(t, out.String(), "commit: none")
}
