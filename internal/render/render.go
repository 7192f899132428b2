// Package render turns canonical attributes into the text of a model
// descriptor.
//
// Rendering happens in two steps. The descriptor is first built as a tree of
// Nodes, which is flattened into Lines carrying their nesting depth and
// separators. Only the final step knows about the indentation unit.
package render

import (
	"strconv"
	"strings"

	"github.com/koustreak/autoseq/internal/attribute"
)

// Option is one extra model option, rendered as `Key: Value`.
type Option struct {
	Key   string
	Value string
}

// Format controls how descriptors are printed.
type Format struct {
	Indentation     int  // indentation units per nesting level
	Spaces          bool // a unit is a space; otherwise a tab
	Global          string
	Local           string
	FreezeTableName bool
	Additional      []Option // emitted in order after freezeTableName
}

// DefaultFormat is one tab per level with the Sequelize identifiers.
func DefaultFormat() Format {
	return Format{
		Indentation:     1,
		Global:          "Sequelize",
		Local:           "sequelize",
		FreezeTableName: true,
	}
}

// Unit returns the indentation for one nesting level.
func (f Format) Unit() string {
	ch := "\t"
	if f.Spaces {
		ch = " "
	}
	return strings.Repeat(ch, max(f.Indentation, 0))
}

// Descriptor is everything needed to render one table.
type Descriptor struct {
	Table  string
	Fields []attribute.Attributes // in introspection order
}

// Node is a `key: value` entry, or a `key: { ... }` block when Children is
// non-nil.
type Node struct {
	Key      string
	Value    string
	Children []Node
}

// Line is one output line without its indentation.
type Line struct {
	Depth int
	Text  string
}

const (
	importORM     = "import Sequelize from 'sequelize';"
	importBuilder = "import { ModelBuilder } from 'hc-database/sequelize/modelBuilder.js';"
)

// FieldNode builds the block of one column. Attributes appear in the order
// type, allowNull, defaultValue, primaryKey, then autoIncrement or references.
func FieldNode(a attribute.Attributes, f Format) Node {
	children := []Node{
		{Key: "type", Value: a.Type.Render(f.Global)},
		{Key: "allowNull", Value: strconv.FormatBool(a.AllowNull)},
	}
	if a.DefaultValue != nil {
		children = append(children, Node{Key: "defaultValue", Value: a.DefaultValue.Render(f.Local)})
	}
	if a.PrimaryKey {
		children = append(children, Node{Key: "primaryKey", Value: "true"})
	}
	switch {
	case a.AutoIncrement:
		children = append(children, Node{Key: "autoIncrement", Value: "true"})
	case a.References != nil:
		children = append(children, Node{Key: "references", Children: []Node{
			{Key: "model", Value: quote(a.References.Model)},
			{Key: "key", Value: quote(a.References.Key)},
		}})
	}
	return Node{Key: a.Field, Children: children}
}

// OptionNodes builds the model options of table. A `name` option becomes a
// singular/plural block pinned to the table name.
func OptionNodes(table string, f Format) []Node {
	var nodes []Node
	if f.FreezeTableName {
		nodes = append(nodes, Node{Key: "freezeTableName", Value: "true"})
	}
	for _, opt := range f.Additional {
		if opt.Key == "name" {
			nodes = append(nodes, Node{Key: "name", Children: []Node{
				{Key: "singular", Value: quote(table)},
				{Key: "plural", Value: quote(table)},
			}})
			continue
		}
		nodes = append(nodes, Node{Key: opt.Key, Value: opt.Value})
	}
	return nodes
}

// Lines flattens the whole descriptor.
func Lines(d Descriptor, f Format) []Line {
	lines := []Line{
		{Text: importORM},
		{Text: ""},
		{Text: importBuilder},
		{Text: ""},
		{Text: "export const " + Capitalize(d.Table) + " = new ModelBuilder().build(" + quote(LowerWords(d.Table)) + ", {"},
	}

	fields := make([]Node, len(d.Fields))
	for i, a := range d.Fields {
		fields[i] = FieldNode(a, f)
	}
	lines = appendNodes(lines, fields, 1)

	options := OptionNodes(d.Table, f)
	if len(options) == 0 {
		return append(lines, Line{Text: "});"})
	}
	lines = append(lines, Line{Text: "}, {"})
	lines = appendNodes(lines, options, 1)
	return append(lines, Line{Text: "});"})
}

// appendNodes flattens siblings, separating them with commas.
func appendNodes(lines []Line, nodes []Node, depth int) []Line {
	for i, n := range nodes {
		sep := ","
		if i == len(nodes)-1 {
			sep = ""
		}
		if n.Children == nil {
			lines = append(lines, Line{Depth: depth, Text: n.Key + ": " + n.Value + sep})
			continue
		}
		lines = append(lines, Line{Depth: depth, Text: n.Key + ": {"})
		lines = appendNodes(lines, n.Children, depth+1)
		lines = append(lines, Line{Depth: depth, Text: "}" + sep})
	}
	return lines
}

// Render prints d. The result ends with a newline and depends only on d and f.
func Render(d Descriptor, f Format) string {
	unit := f.Unit()

	var b strings.Builder
	for _, l := range Lines(d, f) {
		if l.Text != "" {
			b.WriteString(strings.Repeat(unit, l.Depth))
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
