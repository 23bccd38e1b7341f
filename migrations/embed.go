// Package migrations embeds the Postgres schema so the binaries can migrate without the source tree.
package migrations

import "embed"

// FS holds the numbered up/down SQL files
//
//go:embed *.sql
var FS embed.FS
