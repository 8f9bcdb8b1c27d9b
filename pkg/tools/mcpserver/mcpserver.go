// Package mcpserver serves a toolbox over the MCP protocol using the
// official MCP Go SDK. Handler failures become tool-level error results, not
// protocol errors, and carry a machine-readable kind so clients can react to
// missing devices or sessions without parsing message text.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"

	"github.com/germanamz/ioskit/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServer serves tools over the MCP protocol.
type MCPServer struct {
	server   *mcp.Server
	classify func(error) string
}

// New creates an MCPServer. classify maps a handler error to a short kind
// string included in error results; a nil classify leaves errors as plain
// text.
func New(name, version string, classify func(error) string) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	return &MCPServer{server: server, classify: classify}
}

// Register adds tools to the server.
func (s *MCPServer) Register(tools ...toolbox.Tool) {
	for _, t := range tools {
		s.server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, s.handler(t.Handler))
	}
}

// Serve starts serving MCP requests. It reads requests from in and writes
// responses to out. It blocks until ctx is cancelled or the transport closes.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

// run starts the server with the given transport. Exported via Serve for
// production use; called directly by tests with InMemoryTransport.
func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// errorPayload is the structured body of an error result.
type errorPayload struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// handler wraps a toolbox.Handler as an SDK ToolHandler.
func (s *MCPServer) handler(h toolbox.Handler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if args == nil {
			args = json.RawMessage("{}")
		}

		result, err := h(ctx, args)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: s.errorText(err)}},
				IsError: true,
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}, nil
	}
}

// errorText renders a handler error for the client. With a classifier set
// the result is a JSON payload carrying the error kind; the raw message is
// the fallback when no classifier is configured or encoding fails.
func (s *MCPServer) errorText(err error) string {
	if s.classify == nil {
		return err.Error()
	}

	data, mErr := json.Marshal(errorPayload{
		Error: err.Error(),
		Kind:  s.classify(err),
	})
	if mErr != nil {
		return err.Error()
	}

	return string(data)
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
