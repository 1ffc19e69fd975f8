// Package config resolves the server configuration from command-line flags,
// the process environment and an optional .env file, in that order of
// precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/zillow/mcp-calculator/server"
	"github.com/zillow/mcp-calculator/tools"
)

const DefaultEnvFile = ".env"

const (
	envTransport           = "CALCULATOR_TRANSPORT"
	envRuntime             = "CALCULATOR_RUNTIME"
	envAddr                = "CALCULATOR_ADDR"
	envBaseURL             = "CALCULATOR_BASE_URL"
	envLogLevel            = "CALCULATOR_LOG_LEVEL"
	envLogFormat           = "CALCULATOR_LOG_FORMAT"
	envMaxExpressionLength = "CALCULATOR_MAX_EXPRESSION_LENGTH"
)

// Accepted values for the enumerated settings.
var (
	Transports = []string{server.TransportStdio, server.TransportSSE, server.TransportHTTP}
	Runtimes   = []string{server.RuntimeMCPGo, server.RuntimeGoSDK}
	LogFormats = []string{"text", "json", "logfmt"}
)

// ErrInvalid wraps every validation failure, so callers can tell a bad
// setting from an unreadable .env file.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved server configuration. A zero MaxExpressionLength
// disables the length limit.
type Config struct {
	Transport           string
	Runtime             string
	Addr                string
	BaseURL             string
	LogLevel            string
	LogFormat           string
	MaxExpressionLength int
	ShowVersion         bool
}

func defaults() Config {
	return Config{
		Transport:           server.TransportStdio,
		Runtime:             server.RuntimeMCPGo,
		Addr:                "localhost:8080",
		LogLevel:            "info",
		LogFormat:           "text",
		MaxExpressionLength: tools.DefaultMaxExpressionLength,
	}
}

// Load parses args (without the program name). getenv is usually os.Getenv.
// A missing .env file is not an error.
func Load(args []string, getenv func(string) string) (*Config, error) {
	return load(args, getenv, DefaultEnvFile)
}

func load(args []string, getenv func(string) string, envFile string) (*Config, error) {
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		dotenv = map[string]string{}
	}

	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	cfg := defaults()
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	// Flags default to whatever the environment resolved, so an explicit
	// flag always wins.
	flags := flag.NewFlagSet("simple-calculator", flag.ContinueOnError)
	flags.StringVar(&cfg.Transport, "t", cfg.Transport, "Transport type (stdio, sse or http)")
	flags.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type (stdio, sse or http)")
	flags.StringVar(&cfg.Runtime, "runtime", cfg.Runtime, "MCP runtime (mcp-go or go-sdk)")
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for the sse and http transports")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Public base URL for the sse transport (default http://<addr>)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json or logfmt)")
	flags.IntVar(&cfg.MaxExpressionLength, "max-expression-length", cfg.MaxExpressionLength, "Longest accepted expression in characters, 0 for no limit")
	flags.BoolVar(&cfg.ShowVersion, "version", false, "Print the version and exit")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, flags.Args())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	for key, dst := range map[string]*string{
		envTransport: &c.Transport,
		envRuntime:   &c.Runtime,
		envAddr:      &c.Addr,
		envBaseURL:   &c.BaseURL,
		envLogLevel:  &c.LogLevel,
		envLogFormat: &c.LogFormat,
	} {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}

	if v := lookup(envMaxExpressionLength); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, envMaxExpressionLength, err)
		}
		c.MaxExpressionLength = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(Transports, c.Transport) {
		return fmt.Errorf("%w: transport %q, must be one of %v", ErrInvalid, c.Transport, Transports)
	}
	if !slices.Contains(Runtimes, c.Runtime) {
		return fmt.Errorf("%w: runtime %q, must be one of %v", ErrInvalid, c.Runtime, Runtimes)
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("%w: log format %q, must be one of %v", ErrInvalid, c.LogFormat, LogFormats)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	if c.MaxExpressionLength < 0 {
		return fmt.Errorf("%w: max expression length %d is negative", ErrInvalid, c.MaxExpressionLength)
	}
	if c.Transport != server.TransportStdio && c.Addr == "" {
		return fmt.Errorf("%w: %s transport needs an address", ErrInvalid, c.Transport)
	}
	return nil
}
