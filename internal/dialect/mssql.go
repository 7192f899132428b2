package dialect

import (
	"strings"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/schema"
)

// MSSQL unions the referential constraints of a table with its primary key
// columns, the latter carrying the identity flag.
type MSSQL struct{}

func (MSSQL) Name() database.Driver { return database.DriverMSSQL }

func (MSSQL) ForeignKeysQuery(table, schemaName string) (string, []any) {
	const q = `
		SELECT
			ccu.CONSTRAINT_NAME AS constraint_name,
			'FOREIGN KEY'       AS constraint_type,
			ccu.TABLE_SCHEMA    AS source_schema,
			ccu.TABLE_NAME      AS source_table,
			ccu.COLUMN_NAME     AS source_column,
			kcu.TABLE_SCHEMA    AS target_schema,
			kcu.TABLE_NAME      AS target_table,
			kcu.COLUMN_NAME     AS target_column,
			0                   AS is_identity
		FROM INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE ccu
		JOIN INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS rc
			ON ccu.CONSTRAINT_NAME = rc.CONSTRAINT_NAME
			AND ccu.CONSTRAINT_SCHEMA = rc.CONSTRAINT_SCHEMA
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_NAME = rc.UNIQUE_CONSTRAINT_NAME
			AND kcu.CONSTRAINT_SCHEMA = rc.UNIQUE_CONSTRAINT_SCHEMA
		WHERE ccu.TABLE_NAME = @p1
		  AND ccu.TABLE_SCHEMA = @p2
		UNION ALL
		SELECT
			tc.CONSTRAINT_NAME,
			tc.CONSTRAINT_TYPE,
			kcu.TABLE_SCHEMA,
			kcu.TABLE_NAME,
			kcu.COLUMN_NAME,
			NULL,
			NULL,
			NULL,
			COLUMNPROPERTY(OBJECT_ID(QUOTENAME(kcu.TABLE_SCHEMA) + '.' + QUOTENAME(kcu.TABLE_NAME)),
				kcu.COLUMN_NAME, 'IsIdentity')
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		  AND kcu.TABLE_NAME = @p1
		  AND kcu.TABLE_SCHEMA = @p2`

	return q, []any{table, schemaName}
}

func (MSSQL) IsPrimaryKey(ref schema.ForeignKeyRef) bool {
	return ref.String("constraint_type") == "PRIMARY KEY"
}

func (m MSSQL) IsSerialKey(ref schema.ForeignKeyRef) bool {
	return m.IsPrimaryKey(ref) && intField(ref, "is_identity") == 1
}

// SuppressDefault drops the GUID generator default of uniqueidentifier keys.
func (MSSQL) SuppressDefault(def any) bool {
	s, ok := def.(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), "(newid())")
}
