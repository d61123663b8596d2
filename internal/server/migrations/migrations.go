// Package migrations embeds the forward-only SQL schema applied with goose
// when the server starts.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
