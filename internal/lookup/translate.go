// Package lookup turns NWIS code tables into code-keyed lookup mappings.
package lookup

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/nwis-lookups/internal/fetcher"
)

// Entry is the flat lookup value for one code.
type Entry struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Named is the grouped lookup value for one code.
type Named struct {
	Name string `json:"name"`
}

// Codes maps a code to its entry.
type Codes map[string]Entry

// GroupedCodes maps a group value to the codes in that group.
type GroupedCodes map[string]map[string]Named

// Lookups maps a site key to a Codes or GroupedCodes value.
type Lookups map[string]any

// Translate builds a flat lookup from records. descKey may be empty; a
// record without the desc field gets an empty description. Later records
// overwrite earlier ones with the same code.
func Translate(records []fetcher.Record, codeKey, nameKey, descKey string) (Codes, error) {
	out := make(Codes, len(records))
	for i, rec := range records {
		code, err := rec.Field(codeKey)
		if err != nil {
			return nil, eris.Wrapf(err, "translate: record %d", i)
		}
		name, err := rec.Field(nameKey)
		if err != nil {
			return nil, eris.Wrapf(err, "translate: record %d", i)
		}
		out[code] = Entry{Name: name, Desc: rec[descKey]}
	}
	return out, nil
}

// TranslateGrouped builds a lookup partitioned by the groupKey field.
func TranslateGrouped(records []fetcher.Record, groupKey, codeKey, nameKey string) (GroupedCodes, error) {
	out := make(GroupedCodes)
	for i, rec := range records {
		group, err := rec.Field(groupKey)
		if err != nil {
			return nil, eris.Wrapf(err, "translate grouped: record %d", i)
		}
		code, err := rec.Field(codeKey)
		if err != nil {
			return nil, eris.Wrapf(err, "translate grouped: record %d", i)
		}
		name, err := rec.Field(nameKey)
		if err != nil {
			return nil, eris.Wrapf(err, "translate grouped: record %d", i)
		}

		codes, ok := out[group]
		if !ok {
			codes = make(map[string]Named)
			out[group] = codes
		}
		codes[code] = Named{Name: name}
	}
	return out, nil
}
