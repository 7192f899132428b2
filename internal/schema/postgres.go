package schema

import (
	"context"
	"strings"

	"github.com/koustreak/autoseq/internal/database"
)

// PgIntrospector implements Introspector for PostgreSQL using information_schema.
type PgIntrospector struct {
	db     database.DB
	schema string
}

func NewPgIntrospector(db database.DB, schema string) *PgIntrospector {
	if schema == "" {
		schema = "public"
	}
	return &PgIntrospector{db: db, schema: schema}
}

func (p *PgIntrospector) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	return listNames(ctx, p.db, q, p.schema)
}

// DescribeTable reports enum labels in Special for USER-DEFINED columns.
func (p *PgIntrospector) DescribeTable(ctx context.Context, table string) (*Table, error) {
	const q = `
		SELECT
			c.column_name,
			c.data_type || COALESCE('(' || c.character_maximum_length || ')', '') AS column_type,
			c.is_nullable = 'YES'                                              AS allow_null,
			c.column_default,
			COALESCE(pk.is_pk, false)                                          AS is_primary_key,
			COALESCE((
				SELECT array_agg(e.enumlabel::text ORDER BY e.enumsortorder)
				FROM pg_catalog.pg_type t
				JOIN pg_catalog.pg_enum e ON e.enumtypid = t.oid
				WHERE t.typname = c.udt_name
			), '{}')                                                           AS special
		FROM information_schema.columns c

		LEFT JOIN (
			SELECT kcu.column_name, true AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
			  AND tc.table_schema = $1
			  AND tc.table_name   = $2
		) pk ON pk.column_name = c.column_name

		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`

	info := &Table{Name: table}
	rows, err := p.db.Query(ctx, q, p.schema, table)
	if err != nil {
		return finish(info, err)
	}
	defer rows.Close()

	for rows.Next() {
		var col Column
		var def *string
		if err := rows.Scan(&col.Name, &col.Type, &col.AllowNull, &def, &col.PrimaryKey, &col.Special); err != nil {
			return finish(info, err)
		}
		col.Type = strings.ToUpper(col.Type)
		if def != nil {
			col.Default = unquotePostgres(*def)
		}
		if len(col.Special) == 0 {
			col.Special = nil
		}
		info.Columns = append(info.Columns, col)
	}
	return finish(info, rows.Err())
}
