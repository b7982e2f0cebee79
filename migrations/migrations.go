// Package migrations embeds the SQL schema applied by goose.
package migrations

import "embed"

// FS holds the versioned *.sql migrations at its root.
//
//go:embed *.sql
var FS embed.FS
