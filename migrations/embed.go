// Package migrations embeds the goose SQL migrations applied by
// integration/database/pg.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
