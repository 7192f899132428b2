package render

import (
	"strings"
	"testing"

	"github.com/koustreak/autoseq/internal/attribute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersDescriptor() Descriptor {
	return Descriptor{
		Table: "user_accounts",
		Fields: []attribute.Attributes{
			{
				Field:         "id",
				Type:          attribute.MapType("int(11)"),
				PrimaryKey:    true,
				AutoIncrement: true,
			},
			{
				Field:        "created_at",
				Type:         attribute.MapType("datetime"),
				DefaultValue: &attribute.Expr{Kind: attribute.ExprLiteral, Value: "CURRENT_TIMESTAMP"},
			},
			{
				Field:      "org_id",
				Type:       attribute.MapType("int(11)"),
				AllowNull:  true,
				References: &attribute.Reference{Model: "orgs", Key: "id"},
			},
		},
	}
}

func TestRender_Golden(t *testing.T) {
	f := DefaultFormat()
	f.Additional = []Option{{Key: "timestamps", Value: "false"}, {Key: "name", Value: "true"}}

	want := strings.Join([]string{
		"import Sequelize from 'sequelize';",
		"",
		"import { ModelBuilder } from 'hc-database/sequelize/modelBuilder.js';",
		"",
		"export const User_accounts = new ModelBuilder().build('user accounts', {",
		"\tid: {",
		"\t\ttype: Sequelize.INTEGER(11),",
		"\t\tallowNull: false,",
		"\t\tprimaryKey: true,",
		"\t\tautoIncrement: true",
		"\t},",
		"\tcreated_at: {",
		"\t\ttype: Sequelize.DATE,",
		"\t\tallowNull: false,",
		"\t\tdefaultValue: sequelize.literal('CURRENT_TIMESTAMP')",
		"\t},",
		"\torg_id: {",
		"\t\ttype: Sequelize.INTEGER(11),",
		"\t\tallowNull: true,",
		"\t\treferences: {",
		"\t\t\tmodel: 'orgs',",
		"\t\t\tkey: 'id'",
		"\t\t}",
		"\t}",
		"}, {",
		"\tfreezeTableName: true,",
		"\ttimestamps: false,",
		"\tname: {",
		"\t\tsingular: 'user_accounts',",
		"\t\tplural: 'user_accounts'",
		"\t}",
		"});",
		"",
	}, "\n")

	assert.Equal(t, want, Render(usersDescriptor(), f))
}

func TestRender_NoOptions(t *testing.T) {
	f := DefaultFormat()
	f.FreezeTableName = false

	out := Render(Descriptor{Table: "tags", Fields: []attribute.Attributes{{Field: "label", Type: attribute.MapType("text")}}}, f)
	assert.True(t, strings.HasSuffix(out, "\t}\n});\n"))
	assert.NotContains(t, out, "}, {")
}

func TestRender_Indentation(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		unit   string
	}{
		{name: "two spaces", format: Format{Indentation: 2, Spaces: true, Global: "Sequelize", Local: "sequelize"}, unit: "  "},
		{name: "one tab", format: Format{Indentation: 1, Global: "Sequelize", Local: "sequelize"}, unit: "\t"},
		{name: "three tabs", format: Format{Indentation: 3, Global: "Sequelize", Local: "sequelize"}, unit: "\t\t\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := usersDescriptor()
			lines := Lines(d, tt.format)
			rendered := strings.Split(strings.TrimSuffix(Render(d, tt.format), "\n"), "\n")
			require.Len(t, rendered, len(lines))

			for i, l := range lines {
				if l.Text == "" {
					continue
				}
				prefix := strings.Repeat(tt.unit, l.Depth)
				assert.Equal(t, prefix+l.Text, rendered[i])
				rest := strings.TrimPrefix(rendered[i], prefix)
				assert.False(t, strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t"), rendered[i])
			}
		})
	}
}

func TestRender_NoTrailingSeparators(t *testing.T) {
	f := DefaultFormat()
	f.Additional = []Option{{Key: "name", Value: "true"}}

	lines := Lines(usersDescriptor(), f)
	for i := 0; i < len(lines)-1; i++ {
		next := strings.TrimSpace(lines[i+1].Text)
		if strings.HasPrefix(next, "}") {
			assert.False(t, strings.HasSuffix(lines[i].Text, ","), "line %d %q precedes a closing brace", i, lines[i].Text)
		}
	}
	assert.Equal(t, Line{Text: "});"}, lines[len(lines)-1])
}

func TestRender_Deterministic(t *testing.T) {
	f := DefaultFormat()
	f.Additional = []Option{{Key: "name", Value: "true"}}
	assert.Equal(t, Render(usersDescriptor(), f), Render(usersDescriptor(), f))
}

func TestFormat_Unit(t *testing.T) {
	assert.Equal(t, "", Format{Indentation: 0}.Unit())
	assert.Equal(t, "", Format{Indentation: -2, Spaces: true}.Unit())
	assert.Equal(t, "    ", Format{Indentation: 4, Spaces: true}.Unit())
}
