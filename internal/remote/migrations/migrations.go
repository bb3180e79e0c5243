// Package migrations embeds the PostgreSQL migrations for the remote
// backup document table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
