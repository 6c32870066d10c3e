// Package migrations embeds the goose schema for the self-hosted backend.
// The SQL is kept to the subset shared by PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
