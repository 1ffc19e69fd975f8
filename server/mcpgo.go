package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/zillow/mcp-calculator/logging"
)

var _ Runtime = (*MCPGoRuntime)(nil)

// MCPGoRuntime serves tools with github.com/mark3labs/mcp-go.
type MCPGoRuntime struct {
	info    Info
	opts    options
	lister  ToolLister
	invoker ToolInvoker
}

// NewMCPGoRuntime returns a runtime that reports info to clients during
// initialization. Tools must be registered before Serve.
func NewMCPGoRuntime(info Info, opts ...Option) *MCPGoRuntime {
	return &MCPGoRuntime{
		info: info,
		opts: newOptions(opts),
	}
}

func (r *MCPGoRuntime) RegisterToolLister(lister ToolLister) {
	r.lister = lister
}

func (r *MCPGoRuntime) RegisterToolInvoker(invoker ToolInvoker) {
	r.invoker = invoker
}

// Serve builds a fresh MCP server from the registered tools and serves it
// on t.
func (r *MCPGoRuntime) Serve(ctx context.Context, t Transport) error {
	s, err := r.newServer()
	if err != nil {
		return err
	}

	logger := r.opts.logger.With("runtime", "mcp-go", "transport", t.transportName())

	switch t := t.(type) {
	case StdioTransport:
		stdio := mcpserver.NewStdioServer(s)
		stdio.SetErrorLogger(logging.Standard(logger))

		in, out := t.streams()
		logger.Info("serving")
		return normalizeServeError(stdio.Listen(ctx, in, out))

	case SSETransport:
		sse := mcpserver.NewSSEServer(s, mcpserver.WithBaseURL(t.baseURL()))
		router := newRouter(logger)
		router.Handle("/sse", sse.SSEHandler())
		router.Handle("/message", sse.MessageHandler())
		return serveHTTP(ctx, t.Addr, router, r.opts.withLogger(logger))

	case StreamableHTTPTransport:
		router := newRouter(logger)
		router.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s))
		return serveHTTP(ctx, t.Addr, router, r.opts.withLogger(logger))

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTransport, t.transportName())
	}
}

func (r *MCPGoRuntime) newServer() (*mcpserver.MCPServer, error) {
	if err := checkRegistered(r.lister, r.invoker); err != nil {
		return nil, err
	}

	s := mcpserver.NewMCPServer(
		r.info.Name,
		r.info.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	for _, d := range r.lister() {
		schema, err := json.Marshal(d.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("encode input schema of %s: %w", d.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(d.Name, d.Description, schema), r.handleToolCall)
	}

	return s, nil
}

func (r *MCPGoRuntime) handleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := r.invoker(ctx, req.Params.Name, req.GetArguments())
	if err != nil {
		return nil, err
	}

	out := &mcp.CallToolResult{}
	for _, text := range textBlocks(result) {
		out.Content = append(out.Content, mcp.NewTextContent(text))
	}
	return out, nil
}
