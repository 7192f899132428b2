// Package config loads the YAML run configuration.
//
//	database:
//	  driver: mysql
//	  dsn: root:secret@tcp(localhost:3306)/shop
//	generate:
//	  directory: ./models
//	  indentation: 2
//	  spaces: true
//	  tables: [users, posts]
//	  additional:
//	    timestamps: false
//	    name: true
//
// Missing values fall back to the defaults below. The DSN may also come from
// the AUTOSEQ_DSN environment variable.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/logger"
	"github.com/koustreak/autoseq/internal/output"
	"github.com/koustreak/autoseq/internal/render"
	"go.yaml.in/yaml/v3"
)

// EnvDSN names the environment variable consulted when no DSN is configured.
const EnvDSN = "AUTOSEQ_DSN"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Generate GenerateConfig `yaml:"generate"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" validate:"min=0,max=65535"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
	Schema   string `yaml:"schema,omitempty"`

	MaxConns        int32         `yaml:"max_conns,omitempty" validate:"min=0"`
	MinConns        int32         `yaml:"min_conns,omitempty" validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time,omitempty"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout,omitempty"`
}

type GenerateConfig struct {
	Directory       string            `yaml:"directory"`
	Extension       string            `yaml:"extension" validate:"excludesall=/\\"`
	Indentation     *int              `yaml:"indentation" validate:"omitempty,min=0"`
	Spaces          bool              `yaml:"spaces"`
	Tables          []string          `yaml:"tables,omitempty"`
	Additional      AdditionalOptions `yaml:"additional,omitempty"`
	FreezeTableName *bool             `yaml:"freeze_table_name"`
	Global          string            `yaml:"global" validate:"required"`
	Local           string            `yaml:"local" validate:"required"`
	Concurrency     int               `yaml:"concurrency" validate:"min=0"` // 0 = one goroutine per table
}

type OutputConfig struct {
	Kind  string      `yaml:"kind"`
	MinIO MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error disabled off"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with every default applied and no
// database selected.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path, applies defaults and validates the
// result. An empty path yields the defaults plus the environment DSN.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config", err)
		}
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Database.DSN == "" {
		c.Database.DSN = os.Getenv(EnvDSN)
	}

	g := &c.Generate
	if g.Directory == "" {
		g.Directory = "./models"
	}
	if g.Extension == "" {
		g.Extension = "js"
	}
	if g.Indentation == nil {
		one := 1
		g.Indentation = &one
	}
	if g.FreezeTableName == nil {
		yes := true
		g.FreezeTableName = &yes
	}
	if g.Global == "" {
		g.Global = "Sequelize"
	}
	if g.Local == "" {
		g.Local = "sequelize"
	}

	if c.Output.Kind == "" {
		c.Output.Kind = string(output.KindFS)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Validate reports the first invalid setting as errs.ErrKindInvalidInput.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid configuration", err)
	}
	if c.Database.Driver != "" {
		if _, err := database.ParseDriver(c.Database.Driver); err != nil {
			return err
		}
	}
	kind, err := output.ParseKind(c.Output.Kind)
	if err != nil {
		return err
	}
	if kind == output.KindMinIO && c.Output.MinIO.Bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "minio output requires a bucket")
	}
	return nil
}

// Connection converts the database section. It fails when no driver is
// configured.
func (c *Config) Connection() (*database.Config, error) {
	driver, err := database.ParseDriver(c.Database.Driver)
	if err != nil {
		return nil, err
	}

	d := c.Database
	cfg := database.DefaultConfig(driver, d.DSN)
	cfg.Host = d.Host
	cfg.Port = d.Port
	cfg.User = d.User
	cfg.Password = d.Password
	cfg.Name = d.Name
	cfg.SSLMode = d.SSLMode
	cfg.Schema = d.Schema
	if d.MaxConns > 0 {
		cfg.MaxConns = d.MaxConns
	}
	if d.MinConns > 0 {
		cfg.MinConns = d.MinConns
	}
	if d.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = d.ConnMaxLifetime
	}
	if d.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = d.ConnMaxIdleTime
	}
	if d.ConnectTimeout > 0 {
		cfg.ConnectTimeout = d.ConnectTimeout
	}
	return cfg, nil
}

// Format converts the generate section into render settings.
func (c *Config) Format() render.Format {
	g := c.Generate
	f := render.Format{
		Spaces:     g.Spaces,
		Global:     g.Global,
		Local:      g.Local,
		Additional: append([]render.Option(nil), g.Additional...),
	}
	if g.Indentation != nil {
		f.Indentation = *g.Indentation
	}
	if g.FreezeTableName != nil {
		f.FreezeTableName = *g.FreezeTableName
	}
	return f
}

// OutputKind is the parsed output kind. Call after Validate.
func (c *Config) OutputKind() output.Kind {
	kind, _ := output.ParseKind(c.Output.Kind)
	return kind
}

// MinIO converts the minio section.
func (c *Config) MinIO() *output.MinIOConfig {
	m := c.Output.MinIO
	return &output.MinIOConfig{
		Endpoint:  m.Endpoint,
		AccessKey: m.AccessKey,
		SecretKey: m.SecretKey,
		UseSSL:    m.UseSSL,
		Region:    m.Region,
		Bucket:    m.Bucket,
		Prefix:    m.Prefix,
	}
}

// LoggerConfig converts the log section. Logs go to stderr.
func (c *Config) LoggerConfig() *logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}
