package schema

import (
	"context"
	"strconv"
	"strings"

	"github.com/koustreak/autoseq/internal/database"
)

// MSSQLIntrospector implements Introspector for SQL Server.
type MSSQLIntrospector struct {
	db     database.DB
	schema string
}

func NewMSSQLIntrospector(db database.DB, schema string) *MSSQLIntrospector {
	if schema == "" {
		schema = "dbo"
	}
	return &MSSQLIntrospector{db: db, schema: schema}
}

func (m *MSSQLIntrospector) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = @p1
		  AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`

	return listNames(ctx, m.db, q, m.schema)
}

func (m *MSSQLIntrospector) DescribeTable(ctx context.Context, table string) (*Table, error) {
	const q = `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			CASE WHEN pk.COLUMN_NAME IS NULL THEN 0 ELSE 1 END AS IS_PRIMARY_KEY
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT ku.TABLE_SCHEMA, ku.TABLE_NAME, ku.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku
				ON tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME
				AND tc.TABLE_SCHEMA = ku.TABLE_SCHEMA
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON pk.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND pk.TABLE_NAME = c.TABLE_NAME
			AND pk.COLUMN_NAME = c.COLUMN_NAME
		WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
		ORDER BY c.ORDINAL_POSITION`

	info := &Table{Name: table}
	rows, err := m.db.Query(ctx, q, m.schema, table)
	if err != nil {
		return finish(info, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col      Column
			dataType string
			maxLen   *int64
			nullable string
			def      *string
			pk       int64
		)
		if err := rows.Scan(&col.Name, &dataType, &maxLen, &nullable, &def, &pk); err != nil {
			return finish(info, err)
		}
		col.Type = mssqlType(dataType, maxLen)
		col.AllowNull = strings.EqualFold(nullable, "YES")
		if def != nil {
			col.Default = unquoteMSSQL(*def)
		}
		col.PrimaryKey = pk == 1
		info.Columns = append(info.Columns, col)
	}
	return finish(info, rows.Err())
}

// mssqlType renders DATA_TYPE with its width for character types, -1 meaning
// MAX.
func mssqlType(dataType string, maxLen *int64) string {
	t := strings.ToUpper(dataType)
	if maxLen == nil || !strings.Contains(t, "CHAR") {
		return t
	}
	if *maxLen == -1 {
		return t + "(MAX)"
	}
	return t + "(" + strconv.FormatInt(*maxLen, 10) + ")"
}
