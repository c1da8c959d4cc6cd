// Package migrations applies the embedded schema migrations with
// golang-migrate. Both the API and the worker call Run on startup; applying
// an already-applied set is a no-op.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

//go:embed *.sql
var fs embed.FS

// Run applies all up migrations against the given database URL.
func Run(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database URL is empty")
	}

	d, err := iofs.New(fs, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// SQL exposes the embedded migration files, e.g. for test containers that
// bootstrap schemas directly.
func SQL() embed.FS {
	return fs
}
