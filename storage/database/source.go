package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core/records"
)

// table names in the database
const (
	teachersTable    = "teachers"
	studentsTable    = "students"
	performanceTable = "performance"
	credentialsTable = "teacher_credentials"
)

// Source reads the record tables from Postgres. Rows are fetched as text and go through
// the same decoding (column contract, validation) as the CSV files.
type Source struct {
	db *sqlx.DB
}

var _ records.Source = (*Source)(nil)

func NewSource(db *sqlx.DB) *Source {
	return &Source{db: db}
}

func (src *Source) Load(ctx context.Context) (records.Tables, error) {
	var (
		raw records.RawTables
		err error
	)
	if raw.Teachers, err = src.query(ctx, teachersTable); err != nil {
		return records.Tables{}, err
	}
	if raw.Students, err = src.query(ctx, studentsTable); err != nil {
		return records.Tables{}, err
	}
	if raw.Performance, err = src.query(ctx, performanceTable); err != nil {
		return records.Tables{}, err
	}

	exists, err := src.tableExists(ctx, credentialsTable)
	if err != nil {
		return records.Tables{}, err
	}
	if exists {
		if raw.Credentials, err = src.query(ctx, credentialsTable); err != nil {
			return records.Tables{}, err
		}
	}
	return records.Decode(raw)
}

func (src *Source) tableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := src.db.GetContext(ctx, &exists, `SELECT to_regclass($1) IS NOT NULL`, table)
	if err != nil {
		return false, errors.Wrapf(err, "checking table %s", table)
	}
	return exists, nil
}

// query returns every row of `table` as text, header row first.
func (src *Source) query(ctx context.Context, table string) ([][]string, error) {
	// table names are constants: no injection possible
	rows, err := src.db.QueryxContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", table)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", table)
	}
	out := [][]string{cols}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", table)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cell(v)
		}
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "querying %s", table)
	}
	return out, nil
}

// cell formats a scanned value the way it would appear in a CSV export. NULL is "".
func cell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.UTC().Format("2006-01-02")
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
