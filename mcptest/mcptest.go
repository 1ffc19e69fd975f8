// Package mcptest runs a server.Runtime over in-process pipes for tests.
package mcptest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zillow/mcp-calculator/server"
)

// Server encapsulates a runtime under test and manages its pipes and context.
type Server struct {
	name    string
	runtime server.Runtime

	ctx    context.Context
	cancel func()

	serverReader *io.PipeReader
	serverWriter *io.PipeWriter
	clientReader *io.PipeReader
	clientWriter *io.PipeWriter

	transport transport.Interface
	client    *client.Client

	wg       sync.WaitGroup
	mu       sync.Mutex
	serveErr error
}

// NewServer starts rt over stdio pipes and returns a server whose client
// has already completed the initialization handshake. Close is registered
// with t.Cleanup.
func NewServer(t *testing.T, rt server.Runtime) (*Server, error) {
	srv := NewUnstartedServer(t, rt)
	t.Cleanup(srv.Close)

	if err := srv.Start(); err != nil {
		return nil, err
	}

	return srv, nil
}

// NewUnstartedServer wires up the pipes but does not start rt.
// Useful for tests that register tools on rt after creating the harness.
func NewUnstartedServer(t *testing.T, rt server.Runtime) *Server {
	srv := &Server{
		name:    t.Name(),
		runtime: rt,
	}

	srv.ctx, srv.cancel = context.WithCancel(t.Context())

	srv.serverReader, srv.clientWriter = io.Pipe()
	srv.clientReader, srv.serverWriter = io.Pipe()

	return srv
}

// Start serves the runtime in a goroutine and initializes the client.
// When using NewServer, the returned server is already started.
func (s *Server) Start() error {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		err := s.runtime.Serve(s.ctx, server.StdioTransport{
			Stdin:  s.serverReader,
			Stdout: s.serverWriter,
		})

		s.mu.Lock()
		s.serveErr = err
		s.mu.Unlock()

		// Unblock the client if the runtime gave up early.
		if err != nil {
			s.serverReader.CloseWithError(err)
			s.serverWriter.CloseWithError(err)
		}
	}()

	s.transport = transport.NewIO(s.clientReader, s.clientWriter, io.NopCloser(strings.NewReader("")))
	if err := s.transport.Start(s.ctx); err != nil {
		return fmt.Errorf("transport.Start(): %w", err)
	}

	s.client = client.NewClient(s.transport)

	var initReq mcp.InitializeRequest
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: s.name, Version: "test"}
	if _, err := s.client.Initialize(s.ctx, initReq); err != nil {
		return fmt.Errorf("client.Initialize(): %w", err)
	}

	return nil
}

// Close stops the runtime and releases the pipes. It is safe to call twice.
func (s *Server) Close() {
	if s.transport != nil {
		s.transport.Close()
		s.transport = nil
		s.client = nil
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.serverReader == nil {
		return
	}

	// Closing the server side first lets a runtime blocked on a read or
	// write return before we wait on it.
	s.serverReader.Close()
	s.serverWriter.Close()

	s.wg.Wait()

	s.serverReader, s.serverWriter = nil, nil

	s.clientWriter.Close()
	s.clientReader.Close()
	s.clientReader, s.clientWriter = nil, nil
}

// Client returns an MCP client connected to the runtime.
// It is already initialized, i.e. you do _not_ need to call Client.Initialize().
func (s *Server) Client() *client.Client {
	return s.client
}

// Err returns what Serve returned, once it has returned.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// CallTool calls name with args and returns the text of the result.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	return ResultText(result)
}

// ResultText joins the text blocks of result.
func ResultText(result *mcp.CallToolResult) (string, error) {
	var b strings.Builder

	for _, content := range result.Content {
		text, ok := mcp.AsTextContent(content)
		if !ok {
			return "", fmt.Errorf("unsupported content type: %T", content)
		}
		b.WriteString(text.Text)
	}

	if result.IsError {
		return "", fmt.Errorf("%s", b.String())
	}

	return b.String(), nil
}
