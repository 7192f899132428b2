package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/autoseq/internal/errs"
)

// PostgreSQL SQLSTATE codes relevant to catalog reads.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrInsufficientPrivilege = "42501"
	pgErrUndefinedTable        = "42P01"
	pgErrInvalidCatalogName    = "3D000"
	pgErrInvalidPassword       = "28P01"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(classifyCode(pgErr.Code), fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	// TLS, network and auth handshake failures
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

func classifyCode(code string) errs.ErrKind {
	switch {
	case code == pgErrInsufficientPrivilege:
		return errs.ErrKindPermissionDenied
	case code == pgErrUndefinedTable:
		return errs.ErrKindNotFound
	case code == pgErrInvalidCatalogName, code == pgErrInvalidPassword:
		return errs.ErrKindConnectionFailed
	case len(code) >= 2 && (code[:2] == "08" || code[:2] == "28"):
		// Class 08 connection exceptions, class 28 authorization
		return errs.ErrKindConnectionFailed
	default:
		return errs.ErrKindQueryFailed
	}
}
