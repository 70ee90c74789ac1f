// Package migrations embeds the SQL migration files into the binary so the
// server can migrate on startup without shipping files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
