// Package mssql registers the Microsoft SQL Server engine (go-mssqldb).
package mssql

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/database/sqldb"
	"github.com/koustreak/autoseq/internal/errs"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

const defaultPort = 1433

// SQL Server error numbers relevant to catalog reads.
const (
	errInvalidObject    = 208
	errPermissionDenied = 229
	errCannotOpenDB     = 4060
	errLoginFailed      = 18456
)

func init() {
	database.Register(database.DriverMSSQL, func(ctx context.Context, cfg *database.Config) (database.DB, error) {
		return New(ctx, cfg)
	})
}

// New opens a SQL Server connection pool and pings it.
func New(ctx context.Context, cfg *database.Config) (*sqldb.DB, error) {
	dsn := buildDSN(cfg)
	parsed, err := msdsn.Parse(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mssql DSN", err)
	}
	if cfg.Name == "" {
		cfg.Name = parsed.Database
	}
	return sqldb.Open(ctx, sqldb.Options{
		Engine:     database.DriverMSSQL,
		DriverName: "sqlserver",
		DSN:        dsn,
		MapError:   mapError,
	}, cfg)
}

// buildDSN returns cfg.DSN or a sqlserver:// URL.
func buildDSN(cfg *database.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
	}
	q := url.Values{}
	if cfg.Name != "" {
		q.Set("database", cfg.Name)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// mapError translates go-mssqldb errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		kind := errs.ErrKindQueryFailed
		switch msErr.Number {
		case errLoginFailed, errCannotOpenDB:
			kind = errs.ErrKindConnectionFailed
		case errPermissionDenied:
			kind = errs.ErrKindPermissionDenied
		case errInvalidObject:
			kind = errs.ErrKindNotFound
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, msErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
