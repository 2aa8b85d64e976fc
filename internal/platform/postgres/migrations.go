package postgres

import "embed"

// MigrationsFS holds the embedded SQL migrations so the binary can migrate
// the schema without shipping loose files.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migrations inside MigrationsFS.
const MigrationsDir = "migrations"
