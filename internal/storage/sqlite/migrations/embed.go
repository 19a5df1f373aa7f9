package migrations

import "embed"

// FS contains embedded SQLite migrations for room and game storage.
//
//go:embed *.sql
var FS embed.FS
