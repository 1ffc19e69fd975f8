package tools

import (
	"errors"
)

var (
	// Hard errors. They abort the request instead of producing a Result.
	ErrUnknownTool      = errors.New("unknown tool")
	ErrMissingParameter = errors.New("missing required parameter")
)
