// Package mcp provides an MCP (Model Context Protocol) server adapter for changegear.
// It lets AI assistants run gear train searches and read saved calculations.
package mcp

import "errors"

// ErrMissingCalculatorService is returned when the calculator service is not provided.
var ErrMissingCalculatorService = errors.New("mcp: calculator service is required")
