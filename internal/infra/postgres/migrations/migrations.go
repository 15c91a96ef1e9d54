package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set applied by the migrate command and by the
// server on startup when Postgres is configured.
var Migrations = migrate.NewMigrations()
