// Package records defines the raw record type shared between the extract and
// transform stages. A Record maps canonical column names to values; empty CSV
// cells are stored as nil so that "missing" is distinguishable from "".
package records

import (
	"fmt"
	"strings"
)

// Record is one raw source row keyed by canonical column name.
type Record map[string]any

// Str returns the string value for key, or "" when the key is absent, nil, or
// a non-string. Use Missing to distinguish absence from an empty string.
func (r Record) Str(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		if v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Missing reports whether key is absent, nil, or blank after trimming.
func (r Record) Missing(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
