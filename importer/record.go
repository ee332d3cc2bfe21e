package importer

import (
	"strings"
)

// Record is one sheet row below the header, keyed by normalized column label.
type Record struct {
	RowNumber int
	Values    map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeLabel(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func normalizeLabel(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}
