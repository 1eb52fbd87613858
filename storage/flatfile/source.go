// Package flatfile loads the record tables from CSV files.
package flatfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/records"
)

// MissingFileError is returned when a mandatory table file does not exist.
type MissingFileError struct {
	Path string
}

func (err *MissingFileError) Error() string {
	return "missing mandatory file: " + err.Path
}

// Source reads teachers, students and performance (mandatory) and credentials (optional) CSV files.
type Source struct {
	Teachers    string
	Students    string
	Performance string
	Credentials string
}

var _ records.Source = (*Source)(nil)

func NewSource(conf core.DataConfig) *Source {
	return &Source{
		Teachers:    conf.Path(conf.TeachersFile),
		Students:    conf.Path(conf.StudentsFile),
		Performance: conf.Path(conf.PerformanceFile),
		Credentials: conf.Path(conf.CredentialsFile),
	}
}

func (src *Source) Load(ctx context.Context) (records.Tables, error) {
	var (
		raw records.RawTables
		err error
	)
	for _, f := range []struct {
		path     string
		rows     *[][]string
		optional bool
	}{
		{path: src.Teachers, rows: &raw.Teachers},
		{path: src.Students, rows: &raw.Students},
		{path: src.Performance, rows: &raw.Performance},
		{path: src.Credentials, rows: &raw.Credentials, optional: true},
	} {
		if err = ctx.Err(); err != nil {
			return records.Tables{}, err
		}
		if *f.rows, err = readFile(f.path, f.optional); err != nil {
			return records.Tables{}, err
		}
	}
	return records.Decode(raw)
}

// readFile returns nil rows for a missing optional file.
func readFile(path string, optional bool) ([][]string, error) {
	if path == "" {
		if optional {
			return nil, nil
		}
		return nil, &MissingFileError{Path: path}
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if optional {
				return nil, nil
			}
			return nil, &MissingFileError{Path: path}
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = file.Close() }()

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return rows, nil
}

// ReadCSV reads every row of `r`. Rows may have a varying number of fields.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}
