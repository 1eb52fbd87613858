// Package storage picks the configured record source and loads the tables from it.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/records"
	"github.com/trezcool/schoolinsights/storage/database"
	"github.com/trezcool/schoolinsights/storage/flatfile"
)

// data sources
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// LoadTables loads the record tables from the source named by conf.Data.Source.
// The database, if any, is closed once the tables are in memory.
func LoadTables(ctx context.Context, conf *core.Config, logger core.Logger) (records.Tables, error) {
	switch conf.Data.Source {
	case SourceCSV, "":
		return records.Load(ctx, flatfile.NewSource(conf.Data), logger)

	case SourcePostgres:
		db, err := database.Open(ctx, conf.Database)
		if err != nil {
			return records.Tables{}, err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()
		return records.Load(ctx, database.NewSource(db), logger)

	default:
		return records.Tables{}, errors.Errorf("unknown data source %q", conf.Data.Source)
	}
}
