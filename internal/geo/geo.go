// Package geo builds the country, state and county code lookup from the
// Water Quality Portal code services.
package geo

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nwis-lookups/internal/fetcher"
)

// County is the lookup value for one county code.
type County struct {
	Name string `json:"name"`
}

// State is the lookup value for one state code. Counties is only populated
// for countries whose county codes were merged in.
type State struct {
	Name     string            `json:"name"`
	Counties map[string]County `json:"county_cd,omitempty"`
}

// Country holds the states of one country.
type Country struct {
	States map[string]*State `json:"state_cd"`
}

// Lookup maps a country code to its states.
type Lookup map[string]*Country

// Fields names the record fields that carry the code and its description.
// WQP codes look like {"value": "US:06:001", "desc": "US, California, Alameda County"}.
type Fields struct {
	Code string
	Name string
}

// DefaultFields returns the WQP code list field names.
func DefaultFields() Fields {
	return Fields{Code: "value", Name: "desc"}
}

// StateLookup maps each record's state code (the last ':' segment of the
// code) to its name (the last ',' segment of the description).
func StateLookup(records []fetcher.Record, fields Fields) (map[string]*State, error) {
	states := make(map[string]*State, len(records))
	for i, rec := range records {
		code, name, err := codeAndName(rec, fields)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: state record %d", i)
		}
		parts := strings.Split(code, ":")
		states[parts[len(parts)-1]] = &State{Name: lastSegment(name)}
	}
	return states, nil
}

// FilterCounties keeps the records whose code starts with the country prefix,
// e.g. "US" keeps "US:06:001" but not "CA:24:001".
func FilterCounties(records []fetcher.Record, fields Fields, country string) ([]fetcher.Record, error) {
	var out []fetcher.Record
	for i, rec := range records {
		code, err := rec.Field(fields.Code)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: county record %d", i)
		}
		if prefix, _, ok := strings.Cut(code, ":"); ok && prefix == country {
			out = append(out, rec)
		}
	}
	return out, nil
}

// CountyLookup groups county records by their owning state code, giving
// state code to county code to county.
func CountyLookup(records []fetcher.Record, fields Fields) (map[string]map[string]County, error) {
	out := make(map[string]map[string]County)
	for i, rec := range records {
		code, name, err := codeAndName(rec, fields)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: county record %d", i)
		}
		parts := strings.Split(code, ":")
		if len(parts) < 2 {
			return nil, eris.Errorf("geo: county record %d: code %q has no state segment", i, code)
		}
		state, county := parts[len(parts)-2], parts[len(parts)-1]

		counties, ok := out[state]
		if !ok {
			counties = make(map[string]County)
			out[state] = counties
		}
		counties[county] = County{Name: lastSegment(name)}
	}
	return out, nil
}

// Merge attaches counties to the states of country. Every county's state must
// already be present in the lookup.
func Merge(lookup Lookup, country string, counties map[string]map[string]County) error {
	c, ok := lookup[country]
	if !ok {
		return eris.Errorf("geo: merge counties: country %q not in lookup", country)
	}
	for stateCode, stateCounties := range counties {
		state, ok := c.States[stateCode]
		if !ok {
			return eris.Errorf("geo: merge counties: state %q not in %s lookup", stateCode, country)
		}
		state.Counties = stateCounties
	}
	return nil
}

func codeAndName(rec fetcher.Record, fields Fields) (string, string, error) {
	code, err := rec.Field(fields.Code)
	if err != nil {
		return "", "", err
	}
	name, err := rec.Field(fields.Name)
	if err != nil {
		return "", "", err
	}
	return code, name, nil
}

// lastSegment returns the trimmed text after the last comma.
func lastSegment(desc string) string {
	if i := strings.LastIndex(desc, ","); i >= 0 {
		desc = desc[i+1:]
	}
	return strings.TrimSpace(desc)
}
