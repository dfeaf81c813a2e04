// Package domain contains the core business types for Finsight.
// These types are pure data with no infrastructure dependencies;
// all I/O lives behind the ports in internal/core/ports.
package domain
