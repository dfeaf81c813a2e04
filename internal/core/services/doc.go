// Package services contains the core pipeline logic: chunking, prompt
// assembly, retry policy, and the ingest/query orchestrator. Services
// depend only on domain types and ports; all infrastructure lives in
// adapters.
package services
