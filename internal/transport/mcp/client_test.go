package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/aide/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInProcessClient(t *testing.T, s *Server) *client.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cli, err := client.NewInProcessClient(s.mcp)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	require.NoError(t, cli.Start(ctx))

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "aide-test", Version: core.AideVersion}
	_, err = cli.Initialize(ctx, req)
	require.NoError(t, err)

	return cli
}

func TestServer_ListsTools(t *testing.T) {
	cli := newInProcessClient(t, NewServer(&fakeAssistant{}, &fakeCache{}))

	res, err := cli.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"parse_utterance", "ask_assistant", "refresh_cache"}, names)
}

func TestServer_CallOverProtocol(t *testing.T) {
	a := &fakeAssistant{result: core.Ok("Sunny in Paris", nil)}
	cli := newInProcessClient(t, NewServer(a, &fakeCache{}))

	res, err := cli.CallTool(context.Background(), callRequest("ask_assistant", map[string]any{
		"text": "weather in paris",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Sunny in Paris", resultText(t, res))
	assert.Equal(t, DefaultUserID, a.lastUser)
}
