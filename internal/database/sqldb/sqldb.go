// Package sqldb is the database/sql backed implementation of database.DB
// shared by the MySQL, SQLite and SQL Server engines. Each engine supplies its
// driver name, DSN and error mapping.
package sqldb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/errs"
)

// MapErrorFunc translates a native driver error into *errs.Error.
type MapErrorFunc func(err error, msg string) *errs.Error

// Options describes how to open one engine.
type Options struct {
	Engine     database.Driver
	DriverName string // name registered with database/sql
	DSN        string
	MapError   MapErrorFunc
}

// DB implements database.DB on top of sqlx. It is safe for concurrent use.
type DB struct {
	db       *sqlx.DB
	engine   database.Driver
	mapError MapErrorFunc
}

// Open creates the pool, applies cfg's pool settings and pings it.
func Open(ctx context.Context, opts Options, cfg *database.Config) (*DB, error) {
	db, err := sqlx.Open(opts.DriverName, opts.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(int(cfg.MinConns))
	}
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	d := Wrap(db, opts.Engine, opts.MapError)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// Wrap adapts an existing sqlx pool. Used by Open and by tests.
func Wrap(db *sqlx.DB, engine database.Driver, mapError MapErrorFunc) *DB {
	if mapError == nil {
		mapError = func(err error, msg string) *errs.Error {
			return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
		}
	}
	return &DB{db: db, engine: engine, mapError: mapError}
}

func (d *DB) Driver() database.Driver { return d.engine }

func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return d.mapError(err, "ping failed")
	}
	return nil
}

func (d *DB) Close() {
	_ = d.db.Close()
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, d.mapError(err, "query failed")
	}
	return &sqlRows{rows: rows, mapError: d.mapError}, nil
}

// Exec runs a statement that returns no rows. Not part of database.DB; the
// generator never writes to the source database. Tests use it for fixtures.
func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return d.mapError(err, "exec failed")
	}
	return nil
}

func (d *DB) QueryMaps(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := d.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, d.mapError(err, "query failed")
	}
	defer rows.Close()

	result := make([]map[string]any, 0)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, d.mapError(err, "failed to scan row")
		}
		result = append(result, database.NormalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, d.mapError(err, "error during row iteration")
	}
	return result, nil
}

// --- sql.Rows wrapper ---

type sqlRows struct {
	rows     *sql.Rows
	mapError MapErrorFunc
}

func (r *sqlRows) Next() bool { return r.rows.Next() }
func (r *sqlRows) Close()     { _ = r.rows.Close() }

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return r.mapError(err, "failed to scan row")
	}
	return nil
}

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return r.mapError(err, "error during row iteration")
	}
	return nil
}
