package dialect

import (
	"strings"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/schema"
)

// Postgres reads pg_constraint for foreign, primary and unique keys. The
// column default is returned as extra so serial columns can be recognised by
// their nextval() default.
type Postgres struct{}

func (Postgres) Name() database.Driver { return database.DriverPostgres }

func (Postgres) ForeignKeysQuery(table, schemaName string) (string, []any) {
	const q = `
		SELECT
			o.conname       AS constraint_name,
			ns.nspname      AS source_schema,
			m.relname       AS source_table,
			(SELECT a.attname FROM pg_catalog.pg_attribute a
			  WHERE a.attrelid = m.oid AND a.attnum = o.conkey[1] AND a.attisdropped = false) AS source_column,
			fs.nspname      AS target_schema,
			f.relname       AS target_table,
			(SELECT a.attname FROM pg_catalog.pg_attribute a
			  WHERE a.attrelid = f.oid AND a.attnum = o.confkey[1] AND a.attisdropped = false) AS target_column,
			o.contype::text AS contype,
			(SELECT pg_catalog.pg_get_expr(d.adbin, d.adrelid) FROM pg_catalog.pg_attrdef d
			  WHERE d.adrelid = m.oid AND d.adnum = o.conkey[1]) AS extra
		FROM pg_catalog.pg_constraint o
		JOIN pg_catalog.pg_class m ON m.oid = o.conrelid
		JOIN pg_catalog.pg_namespace ns ON ns.oid = m.relnamespace
		LEFT JOIN pg_catalog.pg_class f ON f.oid = o.confrelid
		LEFT JOIN pg_catalog.pg_namespace fs ON fs.oid = f.relnamespace
		WHERE o.contype IN ('f', 'p', 'u')
		  AND m.relname = $1
		  AND ns.nspname = $2`

	return q, []any{table, schemaName}
}

func (Postgres) IsPrimaryKey(ref schema.ForeignKeyRef) bool {
	return ref.String("contype") == "p"
}

// IsSerialKey recognises primary keys defaulting to nextval('<x>_seq'::regclass).
func (p Postgres) IsSerialKey(ref schema.ForeignKeyRef) bool {
	extra := ref.String("extra")
	return p.IsPrimaryKey(ref) &&
		strings.HasPrefix(extra, "nextval") &&
		strings.Contains(extra, "_seq") &&
		strings.Contains(extra, "::regclass")
}
