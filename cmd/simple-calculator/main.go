// Command simple-calculator serves a single "calculate" MCP tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/zillow/mcp-calculator/config"
	"github.com/zillow/mcp-calculator/logging"
	"github.com/zillow/mcp-calculator/server"
	"github.com/zillow/mcp-calculator/tools"
)

const (
	name    = "simple-calculator"
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error("Server error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args, getenv)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		_, err := fmt.Fprintf(stdout, "%s %s\n", name, version)
		return err
	}

	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	transport, err := server.NewTransport(cfg.Transport, cfg.Addr, cfg.BaseURL)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg.Runtime, logger)
	if err != nil {
		return err
	}

	calculator := tools.NewCalculator(
		tools.WithMaxExpressionLength(cfg.MaxExpressionLength),
		tools.WithLogger(logger),
	)
	server.Register(rt, tools.NewRegistry(), calculator)

	logger.Info("Starting", "version", version, "runtime", cfg.Runtime, "transport", cfg.Transport)
	if err := rt.Serve(ctx, transport); err != nil {
		return err
	}
	logger.Info("Stopped")
	return nil
}

func newRuntime(kind string, logger *log.Logger) (server.Runtime, error) {
	info := server.Info{Name: name, Version: version}
	switch kind {
	case server.RuntimeMCPGo:
		return server.NewMCPGoRuntime(info, server.WithLogger(logger)), nil
	case server.RuntimeGoSDK:
		return server.NewGoSDKRuntime(info, server.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown runtime %q", kind)
	}
}
