package server

import (
	"errors"
)

var (
	// Configuration errors, returned by Serve before anything is started
	ErrUnsupportedTransport = errors.New("unsupported transport")
	ErrNoToolLister         = errors.New("no tool lister registered")
	ErrNoToolInvoker        = errors.New("no tool invoker registered")
)
