// Command autoseq generates Sequelize model descriptors from a live database
// schema.
//
//	autoseq -config autoseq.yaml
//	autoseq -driver mysql -dsn 'root:secret@tcp(localhost:3306)/shop' -out ./models
//	autoseq -config autoseq.yaml -serve -addr :8080
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/koustreak/autoseq/internal/config"
	"github.com/koustreak/autoseq/internal/database"
	_ "github.com/koustreak/autoseq/internal/database/all"
	"github.com/koustreak/autoseq/internal/generator"
	"github.com/koustreak/autoseq/internal/logger"
	"github.com/koustreak/autoseq/internal/metrics"
	"github.com/koustreak/autoseq/internal/output"
	"github.com/koustreak/autoseq/internal/output/minio"
	"github.com/koustreak/autoseq/internal/server"
)

type flags struct {
	config      string
	driver      string
	dsn         string
	schema      string
	out         string
	tables      string
	concurrency int
	serve       bool
	addr        string
	logLevel    string
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "path to YAML config file")
	flag.StringVar(&f.driver, "driver", "", "database engine: mysql, postgres, sqlite, mssql")
	flag.StringVar(&f.dsn, "dsn", "", "data source name (default $"+config.EnvDSN+")")
	flag.StringVar(&f.schema, "schema", "", "schema used for catalog queries")
	flag.StringVar(&f.out, "out", "", "output directory for the fs sink")
	flag.StringVar(&f.tables, "tables", "", "comma-separated table allow-list")
	flag.IntVar(&f.concurrency, "concurrency", -1, "max tables in flight per phase (0 = unbounded)")
	flag.BoolVar(&f.serve, "serve", false, "serve descriptors over HTTP instead of writing them")
	flag.StringVar(&f.addr, "addr", "", "listen address for -serve")
	flag.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		fmt.Fprintln(os.Stderr, "autoseq:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LoggerConfig())
	logger.SetGlobal(log)

	conn, err := cfg.Connection()
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := generator.Options{
		Tables:      cfg.Generate.Tables,
		Format:      cfg.Format(),
		Concurrency: cfg.Generate.Concurrency,
	}

	if f.serve {
		rec := metrics.New()
		opts.Metrics = rec
		gen, err := generator.New(db, conn.SchemaName(), opts, log)
		if err != nil {
			return err
		}
		return server.New(gen, log, rec).ListenAndServe(ctx, cfg.Server.Addr)
	}

	gen, err := generator.New(db, conn.SchemaName(), opts, log)
	if err != nil {
		return err
	}
	sink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	_, err = gen.Run(ctx, sink)
	return err
}

func openSink(ctx context.Context, cfg *config.Config) (output.Sink, error) {
	if cfg.OutputKind() == output.KindMinIO {
		return minio.New(ctx, cfg.MinIO(), cfg.Generate.Extension)
	}
	return output.NewFS(cfg.Generate.Directory, cfg.Generate.Extension)
}

// apply overlays explicitly set flags on cfg.
func (f flags) apply(cfg *config.Config) {
	if f.driver != "" {
		cfg.Database.Driver = f.driver
	}
	if f.dsn != "" {
		cfg.Database.DSN = f.dsn
	}
	if f.schema != "" {
		cfg.Database.Schema = f.schema
	}
	if f.out != "" {
		cfg.Generate.Directory = f.out
	}
	if f.tables != "" {
		cfg.Generate.Tables = splitList(f.tables)
	}
	if f.concurrency >= 0 {
		cfg.Generate.Concurrency = f.concurrency
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
