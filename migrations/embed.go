// Package migrations embeds the Postgres schema for the reservation store.
package migrations

import "embed"

// FS holds the golang-migrate files, named <version>_<name>.<up|down>.sql.
//
//go:embed *.sql
var FS embed.FS
