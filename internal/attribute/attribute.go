// Package attribute turns raw column metadata into the canonical attribute
// set a model descriptor is rendered from.
//
// It performs no I/O. Everything engine-specific that it needs arrives
// through the column itself, the column's foreign-key reference and the
// optional dialect.
package attribute

import (
	"fmt"
	"strings"

	"github.com/koustreak/autoseq/internal/dialect"
	"github.com/koustreak/autoseq/internal/schema"
)

// ExprKind tells the renderer how to print a default value.
type ExprKind int

const (
	ExprQuoted  ExprKind = iota // 'value'
	ExprFunc                    // <local>.fn('value')
	ExprLiteral                 // <local>.literal('value')
	ExprRaw                     // value, unquoted
)

// Expr is a default value expression.
type Expr struct {
	Kind  ExprKind
	Value string
}

// Render prints e, qualifying function and literal calls with local.
func (e Expr) Render(local string) string {
	switch e.Kind {
	case ExprFunc:
		return local + ".fn(" + quote(e.Value) + ")"
	case ExprLiteral:
		return local + ".literal(" + quote(e.Value) + ")"
	case ExprRaw:
		return e.Value
	default:
		return quote(e.Value)
	}
}

// Reference is the target of a foreign key.
type Reference struct {
	Model string
	Key   string
}

// Attributes is the canonical, render-ready description of one column.
// Optional attributes are absent when nil or false.
type Attributes struct {
	Field         string
	Type          TypeExpr
	AllowNull     bool
	DefaultValue  *Expr
	PrimaryKey    bool
	AutoIncrement bool
	References    *Reference
}

// dateKeywords are emitted as SQL literals rather than strings.
var dateKeywords = map[string]struct{}{
	"current_timestamp": {},
	"current_date":      {},
	"current_time":      {},
	"localtime":         {},
	"localtimestamp":    {},
}

// MapColumn builds the attributes of col. ref is the column's foreign-key
// reference, or nil. d may be nil.
//
// A serial reference yields autoIncrement and drops both the default and the
// references clause. primaryKey requires the column flag and, when a reference
// exists, the reference's own primary-key classification.
func MapColumn(col schema.Column, ref *schema.ForeignKeyRef, d dialect.Dialect) Attributes {
	attrs := Attributes{
		Field:     col.Name,
		Type:      columnType(col),
		AllowNull: col.AllowNull,
	}

	serial := ref != nil && ref.IsSerialKey
	switch {
	case serial:
		attrs.AutoIncrement = true
	case ref != nil && ref.IsForeignKey:
		attrs.References = &Reference{Model: ref.TargetTable(), Key: ref.TargetColumn()}
	}

	attrs.PrimaryKey = col.PrimaryKey && (ref == nil || ref.IsPrimaryKey)

	if !serial {
		attrs.DefaultValue = MapDefault(col.Type, col.Default, d)
	}
	return attrs
}

// columnType resolves enums from their member list first, then falls back to
// the native type cascade.
func columnType(col schema.Column) TypeExpr {
	isEnum := col.Type == "USER-DEFINED" || strings.HasPrefix(col.Type, "ENUM")
	switch {
	case isEnum && len(col.Special) > 0:
		return EnumOf(col.Special)
	case strings.HasPrefix(col.Type, "ENUM"):
		return TypeExpr{Kind: TypeEnum, Suffix: strings.TrimPrefix(col.Type, "ENUM")}
	}
	return MapType(col.Type)
}

// MapDefault normalizes a raw default. It returns nil when the column has no
// default or the dialect suppresses it.
func MapDefault(nativeType string, def any, d dialect.Dialect) *Expr {
	if def == nil {
		return nil
	}
	if d != nil && dialect.SuppressesDefault(d, def) {
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(nativeType), "bit(1)") {
		if def == "b'1'" {
			return &Expr{Kind: ExprRaw, Value: "1"}
		}
		return &Expr{Kind: ExprRaw, Value: "0"}
	}

	s, ok := def.(string)
	if !ok {
		return &Expr{Kind: ExprRaw, Value: fmt.Sprint(def)}
	}

	if isDateFamily(nativeType) {
		if strings.HasSuffix(s, "()") {
			return &Expr{Kind: ExprFunc, Value: strings.TrimSuffix(s, "()")}
		}
		if _, ok := dateKeywords[strings.ToLower(s)]; ok {
			return &Expr{Kind: ExprLiteral, Value: s}
		}
	}
	return &Expr{Kind: ExprQuoted, Value: s}
}
