// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI, TUI, and MCP adapters drive the core
// through these interfaces.
package driving
