// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Finsight. It lets AI assistants query the indexed report directly.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
