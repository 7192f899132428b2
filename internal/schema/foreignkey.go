package schema

import (
	"fmt"
	"strings"
)

// Canonical foreign-key field names. Engine rows are normalized to these
// before use.
const (
	FieldSourceTable  = "source_table"
	FieldSourceColumn = "source_column"
	FieldSourceSchema = "source_schema"
	FieldTargetTable  = "target_table"
	FieldTargetColumn = "target_column"
	FieldTargetSchema = "target_schema"
)

// ForeignKeyRef is one key linkage discovered for a column. Fields holds the
// normalized row (canonical names plus any engine-specific extras such as
// constraint_name or extra); the flags are derived by the resolver.
type ForeignKeyRef struct {
	Fields map[string]any

	IsForeignKey bool
	IsPrimaryKey bool
	IsSerialKey  bool
}

// Has reports whether the row carried a non-NULL value for key.
func (r ForeignKeyRef) Has(key string) bool {
	v, ok := r.Fields[key]
	return ok && v != nil
}

// String returns the field as text; absent and NULL fields are "".
func (r ForeignKeyRef) String(key string) string {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func (r ForeignKeyRef) SourceTable() string  { return r.String(FieldSourceTable) }
func (r ForeignKeyRef) SourceColumn() string { return r.String(FieldSourceColumn) }
func (r ForeignKeyRef) TargetTable() string  { return r.String(FieldTargetTable) }
func (r ForeignKeyRef) TargetColumn() string { return r.String(FieldTargetColumn) }

// Linked reports whether both endpoint columns are non-blank.
func (r ForeignKeyRef) Linked() bool {
	return strings.TrimSpace(r.SourceColumn()) != "" && strings.TrimSpace(r.TargetColumn()) != ""
}

// Merge shallow-merges next over r: every non-NULL field of next replaces the
// one in r, and flags accumulate. Neither input is modified.
func (r ForeignKeyRef) Merge(next ForeignKeyRef) ForeignKeyRef {
	out := ForeignKeyRef{
		Fields:       make(map[string]any, len(r.Fields)+len(next.Fields)),
		IsForeignKey: r.IsForeignKey || next.IsForeignKey,
		IsPrimaryKey: r.IsPrimaryKey || next.IsPrimaryKey,
		IsSerialKey:  r.IsSerialKey || next.IsSerialKey,
	}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	for k, v := range next.Fields {
		// NULL never overwrites: a PRIMARY row must not erase the target of
		// a FOREIGN row for the same column.
		if v == nil && out.Has(k) {
			continue
		}
		out.Fields[k] = v
	}
	return out
}
