package dialect

import "github.com/koustreak/autoseq/internal/database"

// SQLite uses the foreign_key_list pragma. Its rows name the columns from,
// to and table.
type SQLite struct{}

func (SQLite) Name() database.Driver { return database.DriverSQLite }

func (SQLite) ForeignKeysQuery(table, _ string) (string, []any) {
	return `SELECT * FROM pragma_foreign_key_list(?)`, []any{table}
}
