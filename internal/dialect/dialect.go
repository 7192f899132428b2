// Package dialect holds the per-engine foreign-key discovery strategy.
//
// A Dialect only knows how to ask the catalog about key linkages of one table.
// Engines that cannot tell primary or serial keys apart from the generic
// column description also implement PrimaryKeyClassifier and/or
// SerialKeyClassifier. An engine without a Dialect simply gets no foreign-key
// enrichment.
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/schema"
)

// Dialect builds the foreign-key discovery query for one table.
type Dialect interface {
	Name() database.Driver

	// ForeignKeysQuery returns the statement and its bound arguments. Row
	// field names are engine-specific; the resolver normalizes them.
	ForeignKeysQuery(table, schemaName string) (string, []any)
}

// PrimaryKeyClassifier is implemented by dialects whose foreign-key rows say
// whether the column belongs to the primary key.
type PrimaryKeyClassifier interface {
	IsPrimaryKey(ref schema.ForeignKeyRef) bool
}

// SerialKeyClassifier is implemented by dialects whose foreign-key rows say
// whether the column is auto-generated.
type SerialKeyClassifier interface {
	IsSerialKey(ref schema.ForeignKeyRef) bool
}

// DefaultSuppressor is implemented by dialects with default expressions that
// must not be emitted literally.
type DefaultSuppressor interface {
	SuppressDefault(def any) bool
}

// For returns the dialect of driver, or nil when there is none.
func For(driver database.Driver) Dialect {
	switch driver {
	case database.DriverMySQL:
		return MySQL{}
	case database.DriverPostgres:
		return Postgres{}
	case database.DriverSQLite:
		return SQLite{}
	case database.DriverMSSQL:
		return MSSQL{}
	}
	return nil
}

// IsPrimaryKey applies d's primary-key predicate if it has one.
func IsPrimaryKey(d Dialect, ref schema.ForeignKeyRef) bool {
	c, ok := d.(PrimaryKeyClassifier)
	return ok && c.IsPrimaryKey(ref)
}

// IsSerialKey applies d's serial-key predicate if it has one.
func IsSerialKey(d Dialect, ref schema.ForeignKeyRef) bool {
	c, ok := d.(SerialKeyClassifier)
	return ok && c.IsSerialKey(ref)
}

// SuppressesDefault reports whether d discards the default expression def.
func SuppressesDefault(d Dialect, def any) bool {
	s, ok := d.(DefaultSuppressor)
	return ok && s.SuppressDefault(def)
}

// intField reads a numeric flag that drivers return as various Go types.
func intField(ref schema.ForeignKeyRef, key string) int64 {
	switch v := ref.Fields[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case nil:
		return 0
	default:
		n, _ := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(v)), 10, 64)
		return n
	}
}
