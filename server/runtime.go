// Package server hosts the calculator tools on an MCP protocol runtime.
//
// The protocol itself (framing, capability negotiation, sessions) belongs to
// the runtime. This package only tells a runtime which tools exist and who
// answers calls to them, then asks it to serve on a transport.
package server

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zillow/mcp-calculator/tools"
)

// Info identifies the server during the initialization handshake.
type Info struct {
	Name    string
	Version string
}

// ToolLister reports the tools on offer.
type ToolLister func() []tools.Descriptor

// ToolInvoker runs a tool. A returned error fails the request at the
// protocol level; a Result is always delivered as a normal response.
type ToolInvoker func(ctx context.Context, name string, args map[string]any) (*tools.Result, error)

// Runtime is an MCP protocol implementation the tools can be mounted on.
type Runtime interface {
	RegisterToolLister(ToolLister)
	RegisterToolInvoker(ToolInvoker)
	// Serve blocks until the transport closes or ctx is cancelled.
	Serve(ctx context.Context, t Transport) error
}

// Runtime names, one per protocol implementation.
const (
	RuntimeMCPGo = "mcp-go"
	RuntimeGoSDK = "go-sdk"
)

const defaultShutdownTimeout = 5 * time.Second

type options struct {
	logger          *log.Logger
	shutdownTimeout time.Duration
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger sets the logger for runtime and HTTP request output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithShutdownTimeout bounds how long an HTTP transport waits for
// in-flight requests after ctx is cancelled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:          log.New(io.Discard),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) withLogger(logger *log.Logger) options {
	o.logger = logger
	return o
}

// Register mounts a registry and calculator on rt.
func Register(rt Runtime, registry *tools.Registry, calculator *tools.Calculator) {
	rt.RegisterToolLister(registry.ListTools)
	rt.RegisterToolInvoker(calculator.Invoke)
}

func checkRegistered(lister ToolLister, invoker ToolInvoker) error {
	if lister == nil {
		return ErrNoToolLister
	}
	if invoker == nil {
		return ErrNoToolInvoker
	}
	return nil
}

// A closed transport or a cancelled context is a normal way to stop.
func normalizeServeError(err error) error {
	if err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}

func textBlocks(result *tools.Result) []string {
	if result == nil {
		return nil
	}
	texts := make([]string, 0, len(result.Content))
	for _, c := range result.Content {
		if c.Type == tools.ContentTypeText {
			texts = append(texts, c.Text)
		}
	}
	return texts
}
