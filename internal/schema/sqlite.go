package schema

import (
	"context"

	"github.com/koustreak/autoseq/internal/database"
)

// SQLiteIntrospector implements Introspector through the table-valued pragma
// functions, so table names are bound as parameters.
type SQLiteIntrospector struct {
	db database.DB
}

func NewSQLiteIntrospector(db database.DB) *SQLiteIntrospector {
	return &SQLiteIntrospector{db: db}
}

func (s *SQLiteIntrospector) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	return listNames(ctx, s.db, q)
}

func (s *SQLiteIntrospector) DescribeTable(ctx context.Context, table string) (*Table, error) {
	const q = `
		SELECT name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?)
		ORDER BY cid`

	info := &Table{Name: table}
	rows, err := s.db.Query(ctx, q, table)
	if err != nil {
		return finish(info, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col     Column
			notNull int64
			def     *string
			pk      int64
		)
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &def, &pk); err != nil {
			return finish(info, err)
		}
		col.AllowNull = notNull == 0
		col.PrimaryKey = pk > 0
		if def != nil {
			col.Default = unquoteSQLite(*def)
		}
		info.Columns = append(info.Columns, col)
	}
	return finish(info, rows.Err())
}
