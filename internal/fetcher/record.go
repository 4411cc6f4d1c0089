package fetcher

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Record is one row of a code table: field name to value.
type Record map[string]string

// Field returns the value of key, or an error if the record has no such field.
func (r Record) Field(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", eris.Errorf("record: missing field %q (have %v)", key, r.keys())
	}
	return v, nil
}

func (r Record) keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
