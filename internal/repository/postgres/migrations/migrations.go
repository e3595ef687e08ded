// Package migrations embeds the PostgreSQL schema migrations so the
// migration tool can run them from a single binary.
package migrations

import (
	"embed"
)

//go:embed *.sql
var Migrations embed.FS
