package schema

import (
	"context"
	"strings"

	"github.com/koustreak/autoseq/internal/database"
)

// MySQLIntrospector implements Introspector for MySQL and MariaDB.
type MySQLIntrospector struct {
	db     database.DB
	schema string
}

func NewMySQLIntrospector(db database.DB, schema string) *MySQLIntrospector {
	return &MySQLIntrospector{db: db, schema: schema}
}

func (m *MySQLIntrospector) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	return listNames(ctx, m.db, q, m.schema)
}

// DescribeTable uses column_type, so widths survive (INT(11), VARCHAR(255)).
func (m *MySQLIntrospector) DescribeTable(ctx context.Context, table string) (*Table, error) {
	const q = `
		SELECT
			column_name    AS column_name,
			column_type    AS column_type,
			is_nullable = 'YES' AS allow_null,
			column_default AS column_default,
			column_key = 'PRI'  AS is_primary_key
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`

	info := &Table{Name: table}
	rows, err := m.db.Query(ctx, q, m.schema, table)
	if err != nil {
		return finish(info, err)
	}
	defer rows.Close()

	for rows.Next() {
		var col Column
		var def *string
		if err := rows.Scan(&col.Name, &col.Type, &col.AllowNull, &def, &col.PrimaryKey); err != nil {
			return finish(info, err)
		}
		col.Type, col.Special = mysqlType(col.Type)
		col.Default = derefString(def)
		info.Columns = append(info.Columns, col)
	}
	return finish(info, rows.Err())
}

// mysqlType upper-cases the declared type. Enum members keep their case and
// are also returned as a list.
func mysqlType(t string) (string, []string) {
	if len(t) >= 4 && strings.EqualFold(t[:4], "enum") {
		rest := t[4:]
		return "ENUM" + rest, parseEnumMembers(rest)
	}
	return strings.ToUpper(t), nil
}

// parseEnumMembers splits "('a','b''c')" into [a b'c].
func parseEnumMembers(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	var (
		members []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\'' && inQuote && i+1 < len(s) && s[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case ch == '\'':
			inQuote = !inQuote
			if !inQuote {
				members = append(members, cur.String())
				cur.Reset()
			}
		case inQuote:
			cur.WriteByte(ch)
		}
	}
	return members
}
