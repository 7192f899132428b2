// Package sqlite registers the SQLite engine (mattn/go-sqlite3).
package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/database/sqldb"
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/mattn/go-sqlite3"
)

func init() {
	database.Register(database.DriverSQLite, func(ctx context.Context, cfg *database.Config) (database.DB, error) {
		return New(ctx, cfg)
	})
}

// New opens the SQLite database file named by cfg.DSN (or cfg.Name).
func New(ctx context.Context, cfg *database.Config) (*sqldb.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Name
	}
	if dsn == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "sqlite requires a database file")
	}
	if cfg.Name == "" {
		cfg.Name = "main"
	}
	// Every pooled connection to :memory: would see its own empty database.
	if strings.Contains(dsn, ":memory:") {
		cfg.MaxConns = 1
	}
	return sqldb.Open(ctx, sqldb.Options{
		Engine:     database.DriverSQLite,
		DriverName: "sqlite3",
		DSN:        dsn,
		MapError:   mapError,
	}, cfg)
}

// mapError translates sqlite3.Error codes into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}
		return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
