package server

import (
	"fmt"
	"io"
	"os"
)

// Transport selects how a Runtime talks to clients.
type Transport interface {
	transportName() string
}

// StdioTransport carries newline-delimited JSON-RPC over a pair of streams.
// Nil streams mean the process's own stdin and stdout.
type StdioTransport struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func (StdioTransport) transportName() string { return TransportStdio }

func (t StdioTransport) streams() (io.Reader, io.Writer) {
	in, out := t.Stdin, t.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// SSETransport serves the legacy HTTP+SSE transport on Addr. BaseURL is
// the externally visible origin used in the endpoint event; it defaults to
// http://Addr.
type SSETransport struct {
	Addr    string
	BaseURL string
}

func (SSETransport) transportName() string { return TransportSSE }

func (t SSETransport) baseURL() string {
	if t.BaseURL != "" {
		return t.BaseURL
	}
	return "http://" + t.Addr
}

// StreamableHTTPTransport serves the streamable HTTP transport on Addr at /mcp.
type StreamableHTTPTransport struct {
	Addr string
}

func (StreamableHTTPTransport) transportName() string { return TransportHTTP }

// Transport names accepted by NewTransport.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// NewTransport builds a transport from its configuration name.
func NewTransport(name, addr, baseURL string) (Transport, error) {
	switch name {
	case TransportStdio:
		return StdioTransport{}, nil
	case TransportSSE:
		return SSETransport{Addr: addr, BaseURL: baseURL}, nil
	case TransportHTTP:
		return StreamableHTTPTransport{Addr: addr}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTransport, name)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
