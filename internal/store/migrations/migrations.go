// Package migrations holds the SQLite resource store schema as embedded
// golang-migrate files and reports how far a database is behind it.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// Status describes a database's schema against the embedded migrations.
// Current is 0 for a database that was never migrated.
type Status struct {
	Current uint
	Latest  uint
	Dirty   bool
}

// Pending is the number of migrations not yet applied.
func (s Status) Pending() uint {
	if s.Current >= s.Latest {
		return 0
	}
	return s.Latest - s.Current
}

// Err returns nil when the schema is exactly at Latest and clean.
func (s Status) Err() error {
	switch {
	case s.Dirty:
		return fmt.Errorf("schema is dirty at version %d (a migration failed part way)", s.Current)
	case s.Current == 0:
		return fmt.Errorf("database has no schema version (needs migration)")
	case s.Current < s.Latest:
		return fmt.Errorf("schema is at version %d but latest is %d (%d migrations behind)", s.Current, s.Latest, s.Pending())
	case s.Current > s.Latest:
		return fmt.Errorf("schema version %d is newer than this binary knows (%d)", s.Current, s.Latest)
	}
	return nil
}

func (s Status) String() string {
	return fmt.Sprintf("version %d of %d", s.Current, s.Latest)
}

// ReadStatus reports the schema version of db and the latest embedded version.
func ReadStatus(db *sql.DB) (Status, error) {
	latest, err := latestVersion()
	if err != nil {
		return Status{}, err
	}

	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}
	// m is not closed: that would close the caller's db.

	current, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Latest: latest}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("reading schema version: %w", err)
	}
	return Status{Current: current, Latest: latest, Dirty: dirty}, nil
}

// Check returns an error unless db is at the latest schema version.
func Check(db *sql.DB) error {
	status, err := ReadStatus(db)
	if err != nil {
		return err
	}
	return status.Err()
}

// MigrateUp applies every pending migration. An up-to-date database is left alone.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("opening sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// latestVersion walks the embedded migrations to the last version.
func latestVersion() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("opening embedded migrations: %w", err)
	}
	defer src.Close()

	return lastVersion(src)
}

func lastVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("finding first migration: %w", err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("finding migration after %d: %w", v, err)
		}
		v = next
	}
}
