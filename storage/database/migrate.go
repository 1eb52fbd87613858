package database

import (
	"embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseRunFunc = goose.RunFS // mockable

// Migrate runs a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version)
// against the record tables schema.
func Migrate(db *sqlx.DB, command string, args ...string) error {
	if err := gooseRunFunc(command, db.DB, migrationsFS, "migrations", args...); err != nil {
		return errors.Wrapf(err, "migrate %s", command)
	}
	return nil
}
