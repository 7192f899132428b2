package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/output"
	"github.com/koustreak/autoseq/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autoseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvDSN, "")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./models", c.Generate.Directory)
	assert.Equal(t, "js", c.Generate.Extension)
	assert.Equal(t, render.Format{
		Indentation:     1,
		Global:          "Sequelize",
		Local:           "sequelize",
		FreezeTableName: true,
		Additional:      nil,
	}, c.Format())
	assert.Equal(t, output.KindFS, c.OutputKind())
	assert.Equal(t, ":8080", c.Server.Addr)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvDSN, "")
	path := writeConfig(t, `
database:
  driver: postgresql
  host: db
  name: blog
  schema: content
  max_conns: 4
  connect_timeout: 3s
generate:
  directory: out
  indentation: 2
  spaces: true
  freeze_table_name: false
  tables: [users, posts]
  additional:
    timestamps: false
    name: true
    underscored: true
  concurrency: 8
output:
  kind: minio
  minio:
    endpoint: localhost:9000
    bucket: models
    prefix: gen
log:
  level: debug
`)

	c, err := Load(path)
	require.NoError(t, err)

	f := c.Format()
	assert.Equal(t, 2, f.Indentation)
	assert.True(t, f.Spaces)
	assert.False(t, f.FreezeTableName)
	assert.Equal(t, []render.Option{
		{Key: "timestamps", Value: "false"},
		{Key: "name", Value: "true"},
		{Key: "underscored", Value: "true"},
	}, f.Additional)
	assert.Equal(t, []string{"users", "posts"}, c.Generate.Tables)
	assert.Equal(t, 8, c.Generate.Concurrency)

	db, err := c.Connection()
	require.NoError(t, err)
	assert.Equal(t, database.DriverPostgres, db.Driver)
	assert.Equal(t, "content", db.SchemaName())
	assert.Equal(t, int32(4), db.MaxConns)
	assert.Equal(t, 3*time.Second, db.ConnectTimeout)

	assert.Equal(t, output.KindMinIO, c.OutputKind())
	assert.Equal(t, "models", c.MinIO().Bucket)
	assert.Equal(t, "debug", c.LoggerConfig().Level)
}

func TestLoad_EnvDSN(t *testing.T) {
	t.Setenv(EnvDSN, "file:test.db")

	c, err := Load(writeConfig(t, "database:\n  driver: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, "file:test.db", c.Database.DSN)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "database:\n  driver: oracle\n"},
		{name: "negative indentation", body: "generate:\n  indentation: -1\n"},
		{name: "negative concurrency", body: "generate:\n  concurrency: -2\n"},
		{name: "unknown output", body: "output:\n  kind: ftp\n"},
		{name: "minio without bucket", body: "output:\n  kind: minio\n"},
		{name: "nested additional", body: "generate:\n  additional:\n    indexes: [a, b]\n"},
		{name: "additional not a mapping", body: "generate:\n  additional: [a]\n"},
		{name: "malformed yaml", body: "generate: [\n"},
		{name: "unknown log level", body: "log:\n  level: loud\n"},
		{name: "port out of range", body: "database:\n  port: 70000\n"},
		{name: "extension with path", body: "generate:\n  extension: ../js\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.True(t, errs.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errs.IsInvalidInput(err))
}

func TestConnection_NoDriver(t *testing.T) {
	_, err := Default().Connection()
	assert.True(t, errs.IsInvalidInput(err))
}
