package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var _ Runtime = (*GoSDKRuntime)(nil)

// GoSDKRuntime serves tools with the official github.com/modelcontextprotocol/go-sdk.
type GoSDKRuntime struct {
	info    Info
	opts    options
	lister  ToolLister
	invoker ToolInvoker
}

// NewGoSDKRuntime returns a runtime that reports info to clients during
// initialization. Tools must be registered before Serve.
func NewGoSDKRuntime(info Info, opts ...Option) *GoSDKRuntime {
	return &GoSDKRuntime{
		info: info,
		opts: newOptions(opts),
	}
}

func (r *GoSDKRuntime) RegisterToolLister(lister ToolLister) {
	r.lister = lister
}

func (r *GoSDKRuntime) RegisterToolInvoker(invoker ToolInvoker) {
	r.invoker = invoker
}

func (r *GoSDKRuntime) Serve(ctx context.Context, t Transport) error {
	s, err := r.newServer()
	if err != nil {
		return err
	}

	logger := r.opts.logger.With("runtime", "go-sdk", "transport", t.transportName())
	getServer := func(*http.Request) *sdk.Server { return s }

	switch t := t.(type) {
	case StdioTransport:
		var transport sdk.Transport = &sdk.StdioTransport{}
		if t.Stdin != nil || t.Stdout != nil {
			in, out := t.streams()
			transport = &sdk.IOTransport{
				Reader: io.NopCloser(in),
				Writer: nopWriteCloser{out},
			}
		}
		logger.Info("serving")
		return normalizeServeError(s.Run(ctx, transport))

	case SSETransport:
		router := newRouter(logger)
		router.Handle("/sse", sdk.NewSSEHandler(getServer, nil))
		return serveHTTP(ctx, t.Addr, router, r.opts.withLogger(logger))

	case StreamableHTTPTransport:
		router := newRouter(logger)
		router.Handle("/mcp", sdk.NewStreamableHTTPHandler(getServer, nil))
		return serveHTTP(ctx, t.Addr, router, r.opts.withLogger(logger))

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTransport, t.transportName())
	}
}

func (r *GoSDKRuntime) newServer() (*sdk.Server, error) {
	if err := checkRegistered(r.lister, r.invoker); err != nil {
		return nil, err
	}

	s := sdk.NewServer(&sdk.Implementation{Name: r.info.Name, Version: r.info.Version}, nil)
	for _, d := range r.lister() {
		s.AddTool(&sdk.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}, r.handleToolCall)
	}
	return s, nil
}

func (r *GoSDKRuntime) handleToolCall(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
	var args map[string]any
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
	}

	result, err := r.invoker(ctx, req.Params.Name, args)
	if err != nil {
		return nil, err
	}

	out := &sdk.CallToolResult{}
	for _, text := range textBlocks(result) {
		out.Content = append(out.Content, &sdk.TextContent{Text: text})
	}
	return out, nil
}
