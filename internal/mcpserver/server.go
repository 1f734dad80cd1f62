// Package mcpserver exposes the block editor as MCP tools so agents can
// register blocks, edit their style per breakpoint and read compiled CSS.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/npillmayer/schuko/tracing"

	"github.com/yacobolo/vpcss/internal/editor"
)

// tracer traces with key 'vpcss.mcp'.
func tracer() tracing.Trace {
	return tracing.Select("vpcss.mcp")
}

// Server is the MCP server of one editor.
type Server struct {
	mcp    *server.MCPServer
	editor *editor.Editor
	store  editor.Persister // nil keeps state in memory only
}

// New creates a server with every tool registered. store may be nil.
func New(ed *editor.Editor, store editor.Persister, version string) *Server {
	s := &Server{editor: ed, store: store}
	s.mcp = server.NewMCPServer(
		"vpcss",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerBlockTools()
	s.registerStyleTools()
	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	tracer().Infof("mcp: starting stdio server")
	return server.ServeStdio(s.mcp)
}

// persist writes block id through the store, when there is one.
func (s *Server) persist(ctx context.Context, id string) error {
	if s.store == nil {
		return nil
	}
	return s.editor.Persist(ctx, s.store, id)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireID returns the blockId argument.
func requireID(req mcp.CallToolRequest) (string, error) {
	id := req.GetString("blockId", "")
	if id == "" {
		return "", fmt.Errorf("blockId is required")
	}
	return id, nil
}

// objectArg reads an object argument given either as an object or as a
// JSON string.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	switch v := args[key].(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		out := map[string]any{}
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be an object", key)
}
