// Package generator runs a generation pass: it discovers foreign keys,
// describes tables, maps columns to attributes, renders one descriptor per
// table and hands them to an output sink.
//
// Work fans out over tables in phases separated by barriers:
//
//	foreign keys (best effort) -> describe (fatal) -> render -> write (fatal)
//
// Each worker owns one slot of the per-table state, so no locking is needed
// inside a phase.
package generator

import (
	"context"
	"sync"
	"time"

	"github.com/koustreak/autoseq/internal/attribute"
	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/dialect"
	"github.com/koustreak/autoseq/internal/foreignkey"
	"github.com/koustreak/autoseq/internal/logger"
	"github.com/koustreak/autoseq/internal/metrics"
	"github.com/koustreak/autoseq/internal/output"
	"github.com/koustreak/autoseq/internal/render"
	"github.com/koustreak/autoseq/internal/schema"
	"golang.org/x/sync/errgroup"
)

// Options tune a generation pass.
type Options struct {
	Tables      []string // allow-list; empty means every table
	Format      render.Format
	Concurrency int // max in-flight tables per phase; 0 means unbounded
	Metrics     *metrics.Recorder
}

// Result is the outcome of a pass.
type Result struct {
	Tables []string          // in listing order
	Models map[string]string // table -> rendered descriptor
}

// Generator owns the per-run state. Passes are serialized; a Generator may be
// shared, but only one pass runs at a time.
type Generator struct {
	introspector schema.Introspector
	resolver     *foreignkey.Resolver
	dialect      dialect.Dialect
	opts         Options
	log          *logger.Logger

	mu          sync.Mutex
	order       []string
	tables      map[string]*schema.Table
	foreignKeys map[string]map[string]schema.ForeignKeyRef
}

// New wires a generator for db. schemaName scopes catalog queries.
func New(db database.DB, schemaName string, opts Options, log *logger.Logger) (*Generator, error) {
	in, err := schema.NewIntrospector(db, schemaName)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default()
	}
	d := dialect.For(db.Driver())
	return &Generator{
		introspector: in,
		resolver:     foreignkey.NewResolver(db, d, schemaName, log, opts.Metrics),
		dialect:      d,
		opts:         opts,
		log:          log,
	}, nil
}

// build fetches the raw metadata of every selected table. A table that cannot
// be described fails the pass once all in-flight describes have settled.
// Callers hold g.mu.
func (g *Generator) build(ctx context.Context) error {
	names, err := schema.ListTables(ctx, g.introspector, g.opts.Tables)
	if err != nil {
		return err
	}

	refs := make([]map[string]schema.ForeignKeyRef, len(names))
	if g.resolver.Enabled() {
		start := time.Now()
		fk := g.group()
		for i, name := range names {
			fk.Go(func() error {
				refs[i] = g.resolver.Resolve(ctx, name)
				return nil
			})
		}
		_ = fk.Wait()
		g.opts.Metrics.Phase(metrics.PhaseForeignKeys, start)
	}

	start := time.Now()
	described := make([]*schema.Table, len(names))
	desc := g.group()
	for i, name := range names {
		desc.Go(func() error {
			tbl, err := g.introspector.DescribeTable(ctx, name)
			g.opts.Metrics.Table(metrics.PhaseDescribe, err)
			if err != nil {
				g.log.ForTable(name, metrics.PhaseDescribe).Error(err.Error())
				return err
			}
			described[i] = tbl
			return nil
		})
	}
	err = desc.Wait()
	g.opts.Metrics.Phase(metrics.PhaseDescribe, start)
	if err != nil {
		return err
	}

	g.order = names
	g.tables = make(map[string]*schema.Table, len(names))
	g.foreignKeys = make(map[string]map[string]schema.ForeignKeyRef, len(names))
	for i, name := range names {
		g.tables[name] = described[i]
		g.foreignKeys[name] = refs[i]
	}
	return nil
}

// descriptor maps the columns of a built table. Columns keep their
// introspection order.
func (g *Generator) descriptor(table string) render.Descriptor {
	tbl := g.tables[table]
	refs := g.foreignKeys[table]

	d := render.Descriptor{Table: table, Fields: make([]attribute.Attributes, 0, len(tbl.Columns))}
	for _, col := range tbl.Columns {
		var ref *schema.ForeignKeyRef
		if r, ok := refs[col.Name]; ok {
			ref = &r
		}
		d.Fields = append(d.Fields, attribute.MapColumn(col, ref, g.dialect))
	}
	return d
}

// Generate builds and renders every selected table without writing anything.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generate(ctx)
}

func (g *Generator) generate(ctx context.Context) (*Result, error) {
	if err := g.build(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{
		Tables: append([]string(nil), g.order...),
		Models: make(map[string]string, len(g.order)),
	}
	for _, table := range g.order {
		res.Models[table] = render.Render(g.descriptor(table), g.opts.Format)
		g.opts.Metrics.Table(metrics.PhaseRender, nil)
		g.log.ForTable(table, metrics.PhaseRender).Debug("rendered")
	}
	g.opts.Metrics.Phase(metrics.PhaseRender, start)
	return res, nil
}

// Run generates every selected table and writes the descriptors to sink.
// Writes already dispatched are not rolled back when one of them fails.
func (g *Generator) Run(ctx context.Context, sink output.Sink) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	g.log.InfoWith("generation started", map[string]any{"filter": len(g.opts.Tables)})

	res, err := g.generate(ctx)
	if err != nil {
		g.opts.Metrics.Run(err)
		return nil, err
	}

	writeStart := time.Now()
	w := g.group()
	for _, table := range res.Tables {
		content := []byte(res.Models[table])
		w.Go(func() error {
			err := sink.Write(ctx, table, content)
			g.opts.Metrics.Table(metrics.PhaseWrite, err)
			if err != nil {
				g.log.ForTable(table, metrics.PhaseWrite).Error(err.Error())
				return err
			}
			g.log.ForTable(table, metrics.PhaseWrite).Debugf("wrote %s", sink.Location(table))
			return nil
		})
	}
	err = w.Wait()
	g.opts.Metrics.Phase(metrics.PhaseWrite, writeStart)
	g.opts.Metrics.Run(err)
	if err != nil {
		return nil, err
	}

	g.log.InfoWith("generation finished", map[string]any{
		"tables":      len(res.Tables),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

// group returns a fan-out group honouring the concurrency limit. It has no
// shared context: a failing worker does not cancel its siblings.
func (g *Generator) group() *errgroup.Group {
	grp := &errgroup.Group{}
	if g.opts.Concurrency > 0 {
		grp.SetLimit(g.opts.Concurrency)
	}
	return grp
}
