// Package migrations embeds the SQL schema migrations applied by goose at
// startup of the Postgres-backed registry.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
