package schema

// Column is the raw metadata of one column as the engine describes it.
type Column struct {
	Name       string
	Type       string   // native type string, e.g. INT(11), CHARACTER VARYING(255)
	AllowNull  bool
	Default    any      // nil when the column has no default
	Special    []string // enum members, for engines that expose them
	PrimaryKey bool
}

// Table owns its columns in introspection order. That order is carried into
// the generated descriptor.
type Table struct {
	Name    string
	Columns []Column
}
