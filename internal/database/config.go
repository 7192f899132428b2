package database

import (
	"strings"
	"time"

	"github.com/koustreak/autoseq/internal/errs"
)

// Driver identifies the database engine.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
	DriverMSSQL    Driver = "mssql"
)

// ParseDriver accepts the engine names used in configs and DSN schemes.
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "mssql", "sqlserver":
		return DriverMSSQL, nil
	}
	return "", errs.Newf(errs.ErrKindInvalidInput, "unsupported database driver %q", name)
}

// Config holds all settings needed to connect to and pool a database.
type Config struct {
	// Driver is the database engine (e.g. DriverPostgres).
	Driver Driver

	// DSN is the full data source name. When empty the driver builds one
	// from the discrete fields below.
	DSN string

	Host     string
	Port     int
	User     string
	Password string
	Name     string // database name (file path for SQLite)
	SSLMode  string

	// Schema scopes table listing and foreign-key discovery. Defaults to
	// "public" for Postgres, "dbo" for SQL Server and Name elsewhere.
	Schema string

	// Pool tuning
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConfig returns pool settings sized for a one-shot generation run.
func DefaultConfig(driver Driver, dsn string) *Config {
	return &Config{
		Driver:          driver,
		DSN:             dsn,
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

// SchemaName resolves the schema used for introspection queries.
func (c *Config) SchemaName() string {
	if c.Schema != "" {
		return c.Schema
	}
	switch c.Driver {
	case DriverPostgres:
		return "public"
	case DriverMSSQL:
		return "dbo"
	}
	return c.Name
}
