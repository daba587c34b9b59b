// Package migrations embeds SQL migration files for the SQLite stores.
package migrations

import "embed"

// FS contains the metadata.db migrations embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

// AudioFS contains the audio.db migrations, under the audio/ directory.
//
//go:embed audio/*.sql
var AudioFS embed.FS
