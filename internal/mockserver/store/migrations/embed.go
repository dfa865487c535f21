// Package migrations embeds the mock store's SQL migrations for goose.
package migrations

import "embed"

// FS holds all *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
