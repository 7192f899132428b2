package attribute

import (
	"regexp"
	"strings"
)

// TypeKind is the ORM data type a native column type resolves to.
type TypeKind int

const (
	TypeVerbatim TypeKind = iota // native name emitted as-is
	TypeBoolean
	TypeInteger
	TypeBigInt
	TypeText
	TypeChar
	TypeDate
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeUUID
	TypeJSON
	TypeJSONB
	TypeGeometry
	TypeEnum
)

var typeNames = map[TypeKind]string{
	TypeBoolean:  "BOOLEAN",
	TypeInteger:  "INTEGER",
	TypeBigInt:   "BIGINT",
	TypeText:     "TEXT",
	TypeChar:     "CHAR",
	TypeDate:     "DATE",
	TypeFloat:    "FLOAT",
	TypeDouble:   "DOUBLE",
	TypeDecimal:  "DECIMAL",
	TypeUUID:     "UUIDV4",
	TypeJSON:     "JSON",
	TypeJSONB:    "JSONB",
	TypeGeometry: "GEOMETRY",
	TypeEnum:     "ENUM",
}

// TypeExpr is a resolved column type.
type TypeExpr struct {
	Kind TypeKind

	// Suffix is the parenthesized part kept after the type name: a display
	// width for INTEGER and CHAR, the member list for ENUM.
	Suffix string

	// Native is the original type string, emitted for TypeVerbatim.
	Native string
}

// Name returns the ORM type name with its suffix, e.g. INTEGER(11).
func (t TypeExpr) Name() string {
	if t.Kind == TypeVerbatim {
		return t.Native
	}
	return typeNames[t.Kind] + t.Suffix
}

// Render qualifies the name with the ORM's global identifier.
func (t TypeExpr) Render(global string) string {
	return global + "." + t.Name()
}

var (
	reWidth    = regexp.MustCompile(`\(\d+\)`)
	reInteger  = regexp.MustCompile(`^(smallint|mediumint|tinyint|int)`)
	reBigInt   = regexp.MustCompile(`^bigint`)
	reString   = regexp.MustCompile(`^string|varchar|varying|nvarchar`)
	reChar     = regexp.MustCompile(`^char`)
	reText     = regexp.MustCompile(`text|ntext$`)
	reDateTime = regexp.MustCompile(`^(date|time)`)
	reDouble   = regexp.MustCompile(`^(float8|double precision)`)
	reFloat    = regexp.MustCompile(`^(float|float4)`)
	reDecimal  = regexp.MustCompile(`^decimal`)
	reUUID     = regexp.MustCompile(`^uuid|uniqueidentifier`)
	reJSONB    = regexp.MustCompile(`^jsonb`)
	reJSON     = regexp.MustCompile(`^json`)
	reGeometry = regexp.MustCompile(`^geometry`)
)

// MapType resolves a native type string. Matching is case-insensitive and the
// first rule wins. Unknown types resolve to TypeVerbatim, blank ones to TEXT.
//
// float8 is tested before float and jsonb before json; in the reverse order
// the wider pattern would make the narrower one unreachable.
func MapType(native string) TypeExpr {
	t := strings.ToLower(strings.TrimSpace(native))

	switch {
	case t == "":
		return TypeExpr{Kind: TypeText}
	case t == "tinyint(1)" || t == "boolean" || t == "bit(1)":
		return TypeExpr{Kind: TypeBoolean}
	case reInteger.MatchString(t):
		return TypeExpr{Kind: TypeInteger, Suffix: reWidth.FindString(t)}
	case reBigInt.MatchString(t):
		return TypeExpr{Kind: TypeBigInt}
	case reString.MatchString(t):
		return TypeExpr{Kind: TypeText}
	case reChar.MatchString(t):
		return TypeExpr{Kind: TypeChar, Suffix: reWidth.FindString(t)}
	case reText.MatchString(t):
		return TypeExpr{Kind: TypeText}
	case reDateTime.MatchString(t):
		return TypeExpr{Kind: TypeDate}
	case reDouble.MatchString(t):
		return TypeExpr{Kind: TypeDouble}
	case reFloat.MatchString(t):
		return TypeExpr{Kind: TypeFloat}
	case reDecimal.MatchString(t):
		return TypeExpr{Kind: TypeDecimal}
	case reUUID.MatchString(t):
		return TypeExpr{Kind: TypeUUID}
	case reJSONB.MatchString(t):
		return TypeExpr{Kind: TypeJSONB}
	case reJSON.MatchString(t):
		return TypeExpr{Kind: TypeJSON}
	case reGeometry.MatchString(t):
		return TypeExpr{Kind: TypeGeometry}
	}
	return TypeExpr{Kind: TypeVerbatim, Native: native}
}

// EnumOf builds an ENUM type from its members.
func EnumOf(members []string) TypeExpr {
	quoted := make([]string, len(members))
	for i, m := range members {
		quoted[i] = quote(m)
	}
	return TypeExpr{Kind: TypeEnum, Suffix: "(" + strings.Join(quoted, ",") + ")"}
}

// isDateFamily reports whether native names a date or time type.
func isDateFamily(native string) bool {
	return reDateTime.MatchString(strings.ToLower(strings.TrimSpace(native)))
}

// quote renders s as a single-quoted JavaScript string literal.
func quote(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
