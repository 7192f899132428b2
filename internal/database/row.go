package database

// NormalizeValue converts driver-specific scan results into the plain Go
// values the rest of autoseq expects. database/sql drivers hand text back as
// []byte when scanning into *any.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return v
	}
}

// NormalizeRow applies NormalizeValue to every column of row in place and
// returns it.
func NormalizeRow(row map[string]any) map[string]any {
	for k, v := range row {
		row[k] = NormalizeValue(v)
	}
	return row
}
