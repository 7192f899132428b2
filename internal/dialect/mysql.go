package dialect

import (
	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/schema"
)

// MySQL reads KEY_COLUMN_USAGE, which lists primary, unique and foreign key
// columns alike.
type MySQL struct{}

func (MySQL) Name() database.Driver { return database.DriverMySQL }

func (MySQL) ForeignKeysQuery(table, schemaName string) (string, []any) {
	const q = `
		SELECT
			K.CONSTRAINT_NAME         AS constraint_name,
			K.CONSTRAINT_SCHEMA       AS source_schema,
			K.TABLE_NAME              AS source_table,
			K.COLUMN_NAME             AS source_column,
			K.REFERENCED_TABLE_SCHEMA AS target_schema,
			K.REFERENCED_TABLE_NAME   AS target_table,
			K.REFERENCED_COLUMN_NAME  AS target_column,
			C.EXTRA                   AS extra,
			C.COLUMN_KEY              AS column_key
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE AS K
		LEFT JOIN INFORMATION_SCHEMA.COLUMNS AS C
			ON C.TABLE_SCHEMA = K.CONSTRAINT_SCHEMA
			AND C.TABLE_NAME = K.TABLE_NAME
			AND C.COLUMN_NAME = K.COLUMN_NAME
		WHERE K.TABLE_NAME = ?
		  AND K.CONSTRAINT_SCHEMA = ?`

	return q, []any{table, schemaName}
}

func (MySQL) IsPrimaryKey(ref schema.ForeignKeyRef) bool {
	return ref.String("constraint_name") == "PRIMARY"
}

func (MySQL) IsSerialKey(ref schema.ForeignKeyRef) bool {
	return ref.String("extra") == "auto_increment"
}
