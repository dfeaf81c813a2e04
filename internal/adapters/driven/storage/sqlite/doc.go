// Package sqlite provides a SQLite-backed implementation of the vector index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Chunk embeddings are stored
// as little-endian float32 blobs and searched by brute-force cosine similarity,
// which scales comfortably to the few thousand chunks a single report produces.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Replacing a document's entries happens in a single
// transaction so a failed ingestion never leaves a partial index behind.
//
// # Data Location
//
// By default, the database is stored at ~/.finsight/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
