package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/database/dbtest"
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewIntrospector(t *testing.T) {
	tests := []struct {
		driver  database.Driver
		want    any
		wantErr bool
	}{
		{driver: database.DriverPostgres, want: &PgIntrospector{}},
		{driver: database.DriverMySQL, want: &MySQLIntrospector{}},
		{driver: database.DriverSQLite, want: &SQLiteIntrospector{}},
		{driver: database.DriverMSSQL, want: &MSSQLIntrospector{}},
		{driver: database.Driver("oracle"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.driver), func(t *testing.T) {
			in, err := NewIntrospector(dbtest.New(tt.driver), "")
			if tt.wantErr {
				assert.True(t, errs.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, in)
		})
	}
}

func TestFilterTables(t *testing.T) {
	tests := []struct {
		name   string
		tables []string
		allow  []string
		want   []string
	}{
		{name: "no filter keeps all", tables: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "intersection keeps db order", tables: []string{"a", "b", "c"}, allow: []string{"c", "a"}, want: []string{"a", "c"}},
		{name: "unknown names dropped", tables: []string{"a"}, allow: []string{"zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterTables(tt.tables, tt.allow))
		})
	}
}

func TestListTables_Error(t *testing.T) {
	db := dbtest.New(database.DriverPostgres).
		On("information_schema.tables", dbtest.Result{Err: errors.New("boom")})

	_, err := ListTables(context.Background(), NewPgIntrospector(db, ""), nil)
	assert.True(t, errs.IsIntrospection(err))
}

func TestPgIntrospector_DescribeTable(t *testing.T) {
	db := dbtest.New(database.DriverPostgres).
		On("information_schema.columns", dbtest.Result{Rows: [][]any{
			{"id", "integer", false, strPtr("nextval('users_id_seq'::regclass)"), true, []string{}},
			{"email", "character varying(255)", false, nil, false, []string{}},
			{"status", "USER-DEFINED", true, strPtr("'active'::status"), false, []string{"active", "banned"}},
		}})

	tbl, err := NewPgIntrospector(db, "").DescribeTable(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 3)

	assert.Equal(t, Column{
		Name: "id", Type: "INTEGER", Default: "nextval('users_id_seq'::regclass)", PrimaryKey: true,
	}, tbl.Columns[0])
	assert.Equal(t, "CHARACTER VARYING(255)", tbl.Columns[1].Type)
	assert.Nil(t, tbl.Columns[1].Default)
	assert.Equal(t, []string{"active", "banned"}, tbl.Columns[2].Special)
	assert.Equal(t, "active", tbl.Columns[2].Default)
	assert.True(t, tbl.Columns[2].AllowNull)

	calls := db.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"public", "users"}, calls[0].Args)
}

func TestDescribeTable_NoColumns(t *testing.T) {
	db := dbtest.New(database.DriverMySQL).
		On("information_schema.columns", dbtest.Result{})

	_, err := NewMySQLIntrospector(db, "shop").DescribeTable(context.Background(), "ghost")
	assert.True(t, errs.IsIntrospection(err))
}

func TestMySQLIntrospector_DescribeTable(t *testing.T) {
	db := dbtest.New(database.DriverMySQL).
		On("information_schema.columns", dbtest.Result{Rows: [][]any{
			{"id", "int(11)", false, nil, true},
			{"kind", "enum('Admin','it''s')", false, strPtr("Admin"), false},
		}})

	tbl, err := NewMySQLIntrospector(db, "shop").DescribeTable(context.Background(), "users")
	require.NoError(t, err)

	assert.Equal(t, "INT(11)", tbl.Columns[0].Type)
	assert.Equal(t, "ENUM('Admin','it''s')", tbl.Columns[1].Type)
	assert.Equal(t, []string{"Admin", "it's"}, tbl.Columns[1].Special)
	assert.Equal(t, "Admin", tbl.Columns[1].Default)
}

func TestMSSQLIntrospector_DescribeTable(t *testing.T) {
	db := dbtest.New(database.DriverMSSQL).
		On("INFORMATION_SCHEMA.COLUMNS", dbtest.Result{Rows: [][]any{
			{"id", "uniqueidentifier", nil, "NO", strPtr("(newid())"), int64(1)},
			{"bio", "nvarchar", int64(-1), "YES", nil, int64(0)},
			{"code", "char", int64(3), "NO", nil, int64(0)},
		}})

	tbl, err := NewMSSQLIntrospector(db, "").DescribeTable(context.Background(), "people")
	require.NoError(t, err)

	assert.Equal(t, "UNIQUEIDENTIFIER", tbl.Columns[0].Type)
	assert.True(t, tbl.Columns[0].PrimaryKey)
	assert.Equal(t, "(newid())", tbl.Columns[0].Default)
	assert.Equal(t, "NVARCHAR(MAX)", tbl.Columns[1].Type)
	assert.True(t, tbl.Columns[1].AllowNull)
	assert.Equal(t, "CHAR(3)", tbl.Columns[2].Type)
	assert.Equal(t, []any{"dbo", "people"}, db.Calls()[0].Args)
}

func TestParseEnumMembers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "('a','b')", want: []string{"a", "b"}},
		{in: "('it''s')", want: []string{"it's"}},
		{in: "('a,b','c')", want: []string{"a,b", "c"}},
		{in: "()", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEnumMembers(tt.in))
		})
	}
}

func TestPgIntrospector_DescribeTable_Defaults(t *testing.T) {
	db := dbtest.New(database.DriverPostgres).
		On("information_schema.columns", dbtest.Result{Rows: [][]any{
			{"status", "character varying(20)", false, strPtr("'draft'::character varying"), false, []string{}},
			{"note", "text", true, strPtr("'it''s'::text"), false, []string{}},
			{"tags", "jsonb", false, strPtr("'{}'::jsonb"), false, []string{}},
			{"deleted_at", "timestamp with time zone", true, strPtr("NULL::timestamp with time zone"), false, []string{}},
			{"created_at", "timestamp with time zone", false, strPtr("now()"), false, []string{}},
			{"score", "integer", false, strPtr("0"), false, []string{}},
		}})

	tbl, err := NewPgIntrospector(db, "").DescribeTable(context.Background(), "posts")
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 6)

	assert.Equal(t, "draft", tbl.Columns[0].Default)
	assert.Equal(t, "it's", tbl.Columns[1].Default)
	assert.Equal(t, "{}", tbl.Columns[2].Default)
	assert.Nil(t, tbl.Columns[3].Default)
	assert.Equal(t, "now()", tbl.Columns[4].Default)
	assert.Equal(t, "0", tbl.Columns[5].Default)
}

func TestMSSQLIntrospector_DescribeTable_Defaults(t *testing.T) {
	db := dbtest.New(database.DriverMSSQL).
		On("INFORMATION_SCHEMA.COLUMNS", dbtest.Result{Rows: [][]any{
			{"status", "varchar", int64(20), "NO", strPtr("('draft')"), int64(0)},
			{"title", "nvarchar", int64(100), "NO", strPtr("(N'it''s')"), int64(0)},
			{"score", "int", nil, "NO", strPtr("((0))"), int64(0)},
			{"created_at", "datetime", nil, "NO", strPtr("(getdate())"), int64(0)},
		}})

	tbl, err := NewMSSQLIntrospector(db, "").DescribeTable(context.Background(), "posts")
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 4)

	assert.Equal(t, "draft", tbl.Columns[0].Default)
	assert.Equal(t, "it's", tbl.Columns[1].Default)
	assert.Equal(t, "((0))", tbl.Columns[2].Default)
	assert.Equal(t, "(getdate())", tbl.Columns[3].Default)
}

func TestUnquoteDefaults(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) any
		in   string
		want any
	}{
		{name: "sqlite literal", fn: func(v string) any { return unquoteSQLite(v) }, in: "'draft'", want: "draft"},
		{name: "sqlite escaped quote", fn: func(v string) any { return unquoteSQLite(v) }, in: "'it''s'", want: "it's"},
		{name: "sqlite expression", fn: func(v string) any { return unquoteSQLite(v) }, in: "CURRENT_TIMESTAMP", want: "CURRENT_TIMESTAMP"},
		{name: "sqlite unterminated", fn: func(v string) any { return unquoteSQLite(v) }, in: "'oops", want: "'oops"},
		{name: "postgres cast", fn: unquotePostgres, in: "'draft'::character varying", want: "draft"},
		{name: "postgres bare literal", fn: unquotePostgres, in: "'draft'", want: "draft"},
		{name: "postgres sequence", fn: unquotePostgres, in: "nextval('users_id_seq'::regclass)", want: "nextval('users_id_seq'::regclass)"},
		{name: "postgres null cast", fn: unquotePostgres, in: "NULL::character varying", want: nil},
		{name: "postgres concatenation", fn: unquotePostgres, in: "'a'::text || 'b'::text", want: "'a'::text || 'b'::text"},
		{name: "mssql literal", fn: func(v string) any { return unquoteMSSQL(v) }, in: "('draft')", want: "draft"},
		{name: "mssql unicode literal", fn: func(v string) any { return unquoteMSSQL(v) }, in: "(N'draft')", want: "draft"},
		{name: "mssql number", fn: func(v string) any { return unquoteMSSQL(v) }, in: "((0))", want: "((0))"},
		{name: "mssql guid", fn: func(v string) any { return unquoteMSSQL(v) }, in: "(newid())", want: "(newid())"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestForeignKeyRef_Merge(t *testing.T) {
	fk := ForeignKeyRef{
		Fields:       map[string]any{FieldSourceColumn: "org_id", FieldTargetTable: "orgs", "constraint_name": "fk_org"},
		IsForeignKey: true,
	}
	pk := ForeignKeyRef{
		Fields:       map[string]any{FieldSourceColumn: "org_id", FieldTargetTable: nil, "constraint_name": "PRIMARY"},
		IsPrimaryKey: true,
	}

	got := fk.Merge(pk)

	assert.Equal(t, "orgs", got.TargetTable(), "NULL keeps the earlier value")
	assert.Equal(t, "PRIMARY", got.String("constraint_name"), "non-NULL values win")
	assert.True(t, got.IsForeignKey)
	assert.True(t, got.IsPrimaryKey)
	assert.True(t, got.Has(FieldTargetTable))
	assert.False(t, pk.Has(FieldTargetTable))
	assert.Equal(t, "orgs", fk.TargetTable(), "inputs are not modified")
}
