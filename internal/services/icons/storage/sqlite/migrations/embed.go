package migrations

import "embed"

// FS contains embedded SQLite migrations for the icon index.
//
//go:embed *.sql
var FS embed.FS
