package schema

import "strings"

// Catalogs report string defaults as SQL source text. The helpers below reduce
// a quoted literal to its value and leave every other expression untouched.

// splitQuoted reads the single-quoted literal at the start of v, undoubling
// '' escapes. rest is whatever follows the closing quote.
func splitQuoted(v string) (lit, rest string, ok bool) {
	if len(v) < 2 || v[0] != '\'' {
		return "", "", false
	}
	var b strings.Builder
	for i := 1; i < len(v); i++ {
		if v[i] != '\'' {
			b.WriteByte(v[i])
			continue
		}
		if i+1 < len(v) && v[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), v[i+1:], true
	}
	return "", "", false
}

// unquoteSQLite turns 'draft' into draft and 'it''s' into it's.
func unquoteSQLite(v string) string {
	if lit, rest, ok := splitQuoted(v); ok && rest == "" {
		return lit
	}
	return v
}

// unquotePostgres drops the cast Postgres appends to literals:
// 'draft'::character varying becomes draft. NULL::type means no default.
// Calls such as nextval('users_id_seq'::regclass) are kept whole.
func unquotePostgres(v string) any {
	if lit, rest, ok := splitQuoted(v); ok && (rest == "" || isCast(rest)) {
		return lit
	}
	if strings.HasPrefix(strings.ToUpper(v), "NULL::") {
		return nil
	}
	return v
}

// unquoteMSSQL unwraps ('draft') and (N'draft'). Numeric and function
// defaults such as ((0)) and (newid()) are kept as reported.
func unquoteMSSQL(v string) string {
	if len(v) < 2 || v[0] != '(' || v[len(v)-1] != ')' {
		return v
	}
	inner := v[1 : len(v)-1]
	if strings.HasPrefix(inner, "N'") {
		inner = inner[1:]
	}
	if lit, rest, ok := splitQuoted(inner); ok && rest == "" {
		return lit
	}
	return v
}

// isCast reports whether rest is a lone type cast such as ::character varying,
// not the start of a longer expression.
func isCast(rest string) bool {
	return strings.HasPrefix(rest, "::") && !strings.ContainsAny(rest, "'|")
}
