// Package sqlite provides a reference column store on SQLite that persists
// mapped entities. It exists to exercise the rowjam mapping against a real
// relational engine; the table is created from the caller's TableSpec and
// every row written or read goes through a tablemap.Mapper, including the
// reserved type hint column.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rowjam"
	"github.com/dekarrin/rowjam/internal/rowsort"
	"github.com/dekarrin/rowjam/tablemap"
	"modernc.org/sqlite"
)

// WrapDBError wraps an error from the SQLite engine into an error useable by
// the rest of rowjam. It should be called on any error returned from SQLite
// before a store passes the error back to a caller.
func WrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		primaryCode := sqliteErr.Code() & 0xff
		if primaryCode == 19 {
			return fmt.Errorf("%w: %s", rowjam.ErrConstraintViolation, err.Error())
		}
		if primaryCode == 1 {
			// this is a generic error and thus the string is not descriptive,
			// so preserve the original error instead
			return err
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return rowjam.ErrNotFound
	}
	return err
}

// EntityStore holds mapped entities in one SQLite table. Use New to create
// one backed by a file on disk, or fill in the fields manually (e.g. with a
// mock DB) and call Init yourself.
type EntityStore struct {
	DB     *sql.DB
	Mapper tablemap.Mapper
	Table  string
	Spec   rowjam.TableSpec
}

// New opens (creating if needed) a SQLite database file in dataDir and
// ensures the entity table exists with columns taken from spec, plus an id
// primary key and the reserved hint column.
func New(dataDir, table string, spec rowjam.TableSpec, m tablemap.Mapper) (*EntityStore, error) {
	err := os.MkdirAll(dataDir, 0770)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	filename := filepath.Join(dataDir, "data.db")
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, WrapDBError(err)
	}

	st := &EntityStore{
		DB:     db,
		Mapper: m,
		Table:  table,
		Spec:   spec,
	}

	if err := st.Init(); err != nil {
		db.Close()
		return nil, err
	}

	return st, nil
}

// Init creates the entity table if it does not yet exist. Declared column
// types come straight from the TableSpec; SQLite treats unknown declared
// types as affinity hints, so the native names can be used as-is.
func (repo *EntityStore) Init() error {
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\tid TEXT NOT NULL PRIMARY KEY", repo.Table)

	for _, col := range repo.specColumns() {
		declType := repo.Spec[col].Type
		if declType == "" {
			declType = "TEXT"
		}
		stmt += fmt.Sprintf(",\n\t%s %s", col, declType)
	}

	stmt += fmt.Sprintf(",\n\t%s TEXT\n);", rowjam.HintColumn)

	_, err := repo.DB.Exec(stmt)
	if err != nil {
		return WrapDBError(err)
	}

	return nil
}

// Close closes the underlying database handle.
func (repo *EntityStore) Close() error {
	return repo.DB.Close()
}

// specColumns returns the spec's field names in sorted order so that
// generated SQL is deterministic.
func (repo *EntityStore) specColumns() []string {
	cols := make([]string, 0, len(repo.Spec))
	for name := range repo.Spec {
		cols = append(cols, name)
	}

	return rowsort.By(cols, func(l, r string) bool {
		return l < r
	})
}
