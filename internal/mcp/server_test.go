package mcp

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisracha/blazor-todo/adapter/cli"
	"github.com/chrisracha/blazor-todo/pkg/config"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

func TestNewServer_RegistersTaskTools(t *testing.T) {
	srv, err := NewServer(&cli.App{CurrentUserID: "u1"}, "test", observability.DiscardLogger())
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	var names []any
	for _, tool := range tools {
		names = append(names, tool["name"])
	}
	assert.Subset(t, names, []any{"task.list", "task.add", "task.update", "task.delete"})
}

func TestNewServer_RequiresApp(t *testing.T) {
	_, err := NewServer(nil, "test", nil)
	assert.Error(t, err)
}

func TestServe_RequiresConfig(t *testing.T) {
	err := Serve(context.Background(), nil, &cli.App{}, "test", nil)
	assert.ErrorContains(t, err, "config is required")

	err = Serve(context.Background(), &config.Config{}, nil, "test", nil)
	assert.ErrorContains(t, err, "CLI app is required")
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{{Key: "a", Value: 1}, {Key: "b", Value: "x"}})
	assert.Equal(t, []any{"a", 1, "b", "x"}, args)
}
