// Package schema reads table and column metadata from a live database.
//
// One Introspector exists per engine. All of them speak to the connection
// through database.DB and return the same Table shape, so the attribute
// mapper never needs to know which engine produced a column.
package schema

import (
	"context"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/errs"
)

// Introspector lists tables and describes their columns.
type Introspector interface {
	// ListTables returns every user table visible in the configured schema.
	ListTables(ctx context.Context) ([]string, error)

	// DescribeTable returns the columns of one table in introspection order.
	// Failures are reported as errs.ErrKindIntrospection.
	DescribeTable(ctx context.Context, table string) (*Table, error)
}

// NewIntrospector picks the implementation matching db's engine. schema scopes
// the catalog queries; engines without schemas ignore it.
func NewIntrospector(db database.DB, schema string) (Introspector, error) {
	switch db.Driver() {
	case database.DriverPostgres:
		return NewPgIntrospector(db, schema), nil
	case database.DriverMySQL:
		return NewMySQLIntrospector(db, schema), nil
	case database.DriverSQLite:
		return NewSQLiteIntrospector(db), nil
	case database.DriverMSSQL:
		return NewMSSQLIntrospector(db, schema), nil
	}
	return nil, errs.Newf(errs.ErrKindInvalidInput, "no introspector for driver %q", db.Driver())
}

// ListTables lists the tables and, when filter is non-empty, keeps only the
// ones named in it. Database order is preserved; filter entries that name no
// existing table are dropped silently.
func ListTables(ctx context.Context, in Introspector, filter []string) ([]string, error) {
	tables, err := in.ListTables(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindIntrospection, "list tables", err)
	}
	return FilterTables(tables, filter), nil
}

// FilterTables intersects tables with allow, keeping the order of tables.
func FilterTables(tables, allow []string) []string {
	if len(allow) == 0 {
		return tables
	}
	keep := make(map[string]struct{}, len(allow))
	for _, name := range allow {
		keep[name] = struct{}{}
	}
	out := make([]string, 0, len(allow))
	for _, name := range tables {
		if _, ok := keep[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func listNames(ctx context.Context, db database.DB, q string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func describeFailed(table string, err error) error {
	return errs.Wrap(errs.ErrKindIntrospection, "describe table "+table, err)
}

func finish(info *Table, err error) (*Table, error) {
	if err != nil {
		return nil, describeFailed(info.Name, err)
	}
	if len(info.Columns) == 0 {
		return nil, describeFailed(info.Name, errs.Newf(errs.ErrKindNotFound, "table %s not found or has no columns", info.Name))
	}
	return info, nil
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
