// Package migrations holds the goose SQL migrations of the demo-account pool.
package migrations

import "embed"

// Files contains every .sql file of this directory, applied in name order.
//
//go:embed *.sql
var Files embed.FS
