// Package mysql registers the MySQL engine (go-sql-driver/mysql).
package mysql

import (
	"context"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/database/sqldb"
	"github.com/koustreak/autoseq/internal/errs"
)

const defaultPort = 3306

func init() {
	database.Register(database.DriverMySQL, func(ctx context.Context, cfg *database.Config) (database.DB, error) {
		return New(ctx, cfg)
	})
}

// New opens a MySQL connection pool and pings it.
func New(ctx context.Context, cfg *database.Config) (*sqldb.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}
	return sqldb.Open(ctx, sqldb.Options{
		Engine:     database.DriverMySQL,
		DriverName: "mysql",
		DSN:        dsn,
		MapError:   mapError,
	}, cfg)
}

// buildDSN validates cfg.DSN or assembles one from the discrete fields.
func buildDSN(cfg *database.Config) (string, error) {
	if cfg.DSN != "" {
		parsed, err := gomysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql DSN", err)
		}
		if cfg.Name == "" {
			cfg.Name = parsed.DBName
		}
		return cfg.DSN, nil
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	c := gomysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	c.DBName = cfg.Name
	c.ParseTime = true
	return c.FormatDSN(), nil
}
