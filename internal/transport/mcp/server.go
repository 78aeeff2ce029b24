package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
)

const (
	serverName    = "aide"
	serverVersion = core.AideVersion

	DefaultUserID = "mcp-local"
)

// Assistant is the part of the assistant exposed as tools.
type Assistant interface {
	Parse(text string) core.Command
	Handle(ctx context.Context, userID, text string) (core.Result, string)
}

// Cache refreshes cached lookups.
type Cache interface {
	ForceRefresh(domain core.Domain, target string) bool
}

// Server exposes the assistant over the MCP stdio transport.
type Server struct {
	assistant Assistant
	cache     Cache
	mcp       *server.MCPServer

	in  io.Reader
	out io.Writer
}

func NewServer(assistant Assistant, cache Cache) *Server {
	s := &Server{
		assistant: assistant,
		cache:     cache,
		in:        os.Stdin,
		out:       os.Stdout,
	}

	s.mcp = server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.mcp.AddTool(parseTool(), s.handleParse)
	s.mcp.AddTool(askTool(), s.handleAsk)
	s.mcp.AddTool(refreshTool(), s.handleRefresh)

	return s
}

// WithIO replaces stdin and stdout, mainly for tests.
func (s *Server) WithIO(in io.Reader, out io.Writer) *Server {
	s.in, s.out = in, out
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("MCP stdio server started")

	stdio := server.NewStdioServer(s.mcp)
	err := stdio.Listen(ctx, s.in, s.out)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func parseTool() mcp.Tool {
	return mcp.NewTool("parse_utterance",
		mcp.WithDescription("Parse a natural-language request into a structured command without executing it"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The utterance to parse"),
		),
	)
}

func askTool() mcp.Tool {
	return mcp.NewTool("ask_assistant",
		mcp.WithDescription("Run a request through the assistant: weather, news, reminders, meetings, tasks and notes"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The request, e.g. 'remind me to call mom tomorrow at 5pm'"),
		),
		mcp.WithString("user_id",
			mcp.Description("Owner of created items"),
			mcp.DefaultString(DefaultUserID),
		),
	)
}

func refreshTool() mcp.Tool {
	return mcp.NewTool("refresh_cache",
		mcp.WithDescription("Drop a cached weather or news lookup so the next request fetches fresh data"),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Enum(string(core.DomainWeather), string(core.DomainNews)),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("City for weather, or category:x / search:q / top:country for news"),
		),
	)
}

func (s *Server) handleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(s.assistant.Parse(text), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID := strings.TrimSpace(req.GetString("user_id", DefaultUserID))
	if userID == "" {
		userID = DefaultUserID
	}

	res, reply := s.assistant.Handle(ctx, userID, text)
	if !res.Success {
		return mcp.NewToolResultError(reply), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := req.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d := core.Domain(strings.ToLower(domain))
	if !d.IsLookup() {
		return mcp.NewToolResultError(fmt.Sprintf("domain %q has no cache", domain)), nil
	}

	if s.cache.ForceRefresh(d, target) {
		return mcp.NewToolResultText(fmt.Sprintf("Dropped cached %s for %s", d, target)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Nothing cached for %s %s", d, target)), nil
}
