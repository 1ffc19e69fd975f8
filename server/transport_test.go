package server_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zillow/mcp-calculator/mcptest"
	"github.com/zillow/mcp-calculator/server"
)

func listenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestRuntime_CallToolOverHTTP(t *testing.T) {
	transports := []struct {
		name      string
		transport func(addr string) server.Transport
		client    func(addr string) (*client.Client, error)
	}{
		{
			name:      server.TransportSSE,
			transport: func(addr string) server.Transport { return server.SSETransport{Addr: addr} },
			client:    func(addr string) (*client.Client, error) { return client.NewSSEMCPClient("http://" + addr + "/sse") },
		},
		{
			name:      server.TransportHTTP,
			transport: func(addr string) server.Transport { return server.StreamableHTTPTransport{Addr: addr} },
			client: func(addr string) (*client.Client, error) {
				return client.NewStreamableHttpClient("http://" + addr + "/mcp")
			},
		},
	}

	for runtimeName, newRuntime := range runtimes() {
		for _, tt := range transports {
			t.Run(runtimeName+"/"+tt.name, func(t *testing.T) {
				addr := listenAddr(t)
				ctx, cancel := context.WithCancel(t.Context())
				defer cancel()

				done := make(chan error, 1)
				go func() {
					done <- newRuntime().Serve(ctx, tt.transport(addr))
				}()

				require.Eventually(t, func() bool {
					resp, err := http.Get("http://" + addr + "/health")
					if err != nil {
						return false
					}
					resp.Body.Close()
					return resp.StatusCode == http.StatusOK
				}, 2*time.Second, 20*time.Millisecond)

				c, err := tt.client(addr)
				require.NoError(t, err)
				require.NoError(t, c.Start(ctx))

				var initRequest mcp.InitializeRequest
				initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
				initRequest.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "1.0.0"}
				initResult, err := c.Initialize(ctx, initRequest)
				require.NoError(t, err)
				assert.Equal(t, "simple-calculator", initResult.ServerInfo.Name)

				var req mcp.CallToolRequest
				req.Params.Name = "calculate"
				req.Params.Arguments = map[string]any{"expression": "100/4"}
				result, err := c.CallTool(ctx, req)
				require.NoError(t, err)

				text, err := mcptest.ResultText(result)
				require.NoError(t, err)
				assert.Equal(t, "calculation result: 100/4 = 25.0", text)

				require.NoError(t, c.Close())
				cancel()
				select {
				case err := <-done:
					assert.NoError(t, err)
				case <-time.After(10 * time.Second):
					t.Fatal("Serve did not return after cancel")
				}
			})
		}
	}
}
