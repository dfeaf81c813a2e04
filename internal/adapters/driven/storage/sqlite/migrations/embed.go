// Package migrations holds the schema migration files for the index store.
package migrations

import "embed"

// FS exposes the embedded *.sql migration files, applied in version order.
//
//go:embed *.sql
var FS embed.FS
