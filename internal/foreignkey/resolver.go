// Package foreignkey discovers key linkages per table and normalizes them
// into schema.ForeignKeyRef values.
//
// Discovery is best-effort: a failing catalog query is logged and the table
// simply gets no reference information.
package foreignkey

import (
	"context"
	"strings"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/dialect"
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/logger"
	"github.com/koustreak/autoseq/internal/metrics"
	"github.com/koustreak/autoseq/internal/schema"
)

// renames maps pragma-style field names onto the canonical ones.
var renames = map[string]string{
	"from":  schema.FieldSourceColumn,
	"to":    schema.FieldTargetColumn,
	"table": schema.FieldTargetTable,
}

// Resolver runs a dialect's foreign-key query. It holds no per-table state
// and is safe for concurrent use.
type Resolver struct {
	db         database.DB
	dialect    dialect.Dialect
	schemaName string
	log        *logger.Logger
	metrics    *metrics.Recorder
}

// NewResolver returns a resolver for d. A nil d disables discovery; rec may
// be nil.
func NewResolver(db database.DB, d dialect.Dialect, schemaName string, log *logger.Logger, rec *metrics.Recorder) *Resolver {
	if log == nil {
		log = logger.Default()
	}
	return &Resolver{db: db, dialect: d, schemaName: schemaName, log: log, metrics: rec}
}

// Enabled reports whether the engine has a dialect.
func (r *Resolver) Enabled() bool { return r.dialect != nil }

// Resolve returns the references of table keyed by source column. It never
// fails: query errors are logged at warn level and yield an empty mapping.
func (r *Resolver) Resolve(ctx context.Context, table string) map[string]schema.ForeignKeyRef {
	refs, err := r.Fetch(ctx, table)
	r.metrics.Table(metrics.PhaseForeignKeys, err)
	if err != nil {
		r.log.WarnWith("foreign key discovery failed", err, map[string]any{
			"table": table,
			"phase": metrics.PhaseForeignKeys,
		})
		return map[string]schema.ForeignKeyRef{}
	}
	return refs
}

// Fetch is Resolve without the error swallowing. Failures are
// errs.ErrKindForeignKeyQuery.
func (r *Resolver) Fetch(ctx context.Context, table string) (map[string]schema.ForeignKeyRef, error) {
	refs := make(map[string]schema.ForeignKeyRef)
	if r.dialect == nil {
		return refs, nil
	}

	q, args := r.dialect.ForeignKeysQuery(table, r.schemaName)
	rows, err := r.db.QueryMaps(ctx, q, args...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindForeignKeyQuery, "foreign keys for "+table, err)
	}

	for _, row := range rows {
		ref := r.classify(Normalize(row, table, r.schemaName))
		col := ref.SourceColumn()
		if col == "" {
			continue
		}
		if prev, ok := refs[col]; ok {
			ref = prev.Merge(ref)
		}
		refs[col] = ref
	}
	return refs, nil
}

func (r *Resolver) classify(fields map[string]any) schema.ForeignKeyRef {
	ref := schema.ForeignKeyRef{Fields: fields}
	ref.IsForeignKey = ref.Linked()
	ref.IsPrimaryKey = dialect.IsPrimaryKey(r.dialect, ref)
	ref.IsSerialKey = dialect.IsSerialKey(r.dialect, ref)
	return ref
}

// Normalize renames engine-specific fields, fills source_table and the schema
// fields when the row lacks them and trims both endpoint columns. The input
// row is not modified.
func Normalize(row map[string]any, table, schemaName string) map[string]any {
	out := map[string]any{
		schema.FieldSourceTable:  table,
		schema.FieldSourceSchema: schemaName,
		schema.FieldTargetSchema: schemaName,
	}
	for k, v := range row {
		if canonical, ok := renames[k]; ok {
			k = canonical
		}
		out[k] = v
	}
	for _, k := range []string{schema.FieldSourceColumn, schema.FieldTargetColumn} {
		if s, ok := out[k].(string); ok {
			out[k] = strings.TrimSpace(s)
		}
	}
	return out
}
