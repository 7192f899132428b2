package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/autoseq/internal/errs"
)

// MySQL server error numbers.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDBAccessDenied   = 1044
	errAccessDenied     = 1045
	errNoDatabase       = 1046
	errUnknownDatabase  = 1049
	errTooManyConns     = 1040
	errUserLimitReached = 1203
	errTableAccess      = 1142
	errColumnAccess     = 1143
	errUnknownTable     = 1146
)

// mapError translates go-sql-driver/mysql errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

func classifyCode(code uint16) errs.ErrKind {
	switch code {
	case errAccessDenied, errNoDatabase, errUnknownDatabase, errTooManyConns, errUserLimitReached:
		return errs.ErrKindConnectionFailed
	case errDBAccessDenied, errTableAccess, errColumnAccess:
		return errs.ErrKindPermissionDenied
	case errUnknownTable:
		return errs.ErrKindNotFound
	default:
		return errs.ErrKindQueryFailed
	}
}
