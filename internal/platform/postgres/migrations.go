package postgres

import "embed"

// Migrations holds the goose SQL migrations embedded into the binary so the
// server can apply them without a checkout of the source tree.
//
//go:embed migrations/*.sql
var Migrations embed.FS
