package db

import "embed"

// MigrationFS embeds SQL migration files from db/migrations. The app applies
// them at startup through the migrate runner.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
