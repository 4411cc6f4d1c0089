package lookup

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Table describes one remote code table and where its lookup lands in the
// output. GroupKey is only used by grouped tables.
type Table struct {
	SiteKey  string            `yaml:"site_key"`
	CodeKey  string            `yaml:"code_key"`
	NameKey  string            `yaml:"name_key"`
	DescKey  string            `yaml:"desc_key,omitempty"`
	GroupKey string            `yaml:"group_key,omitempty"`
	Path     string            `yaml:"path,omitempty"`
	URL      string            `yaml:"url,omitempty"`
	Params   map[string]string `yaml:"params,omitempty"`
}

// Endpoint returns the table's URL, resolving Path against base when no
// absolute URL is set.
func (t Table) Endpoint(base string) string {
	if t.URL != "" {
		return t.URL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(t.Path, "/")
}

// Tables is the set of enabled code tables.
type Tables struct {
	Flat    []Table `yaml:"tables"`
	Grouped []Table `yaml:"grouped_tables"`
}

// DefaultTables returns the built-in table list.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTablesYAML)
}

// LoadTables reads a table list from path, or the built-in list when path is empty.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: read tables file %s", path)
	}
	return ParseTables(data)
}

// ParseTables decodes and validates a YAML table list.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "lookup: parse tables")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks required keys and that no two tables share a site key.
func (t *Tables) Validate() error {
	seen := make(map[string]bool)
	check := func(kind string, i int, tbl Table) error {
		switch {
		case tbl.SiteKey == "":
			return eris.Errorf("lookup: %s table %d: site_key is required", kind, i)
		case tbl.CodeKey == "":
			return eris.Errorf("lookup: %s table %q: code_key is required", kind, tbl.SiteKey)
		case tbl.NameKey == "":
			return eris.Errorf("lookup: %s table %q: name_key is required", kind, tbl.SiteKey)
		case tbl.Path == "" && tbl.URL == "":
			return eris.Errorf("lookup: %s table %q: path or url is required", kind, tbl.SiteKey)
		case seen[tbl.SiteKey]:
			return eris.Errorf("lookup: duplicate site_key %q", tbl.SiteKey)
		}
		seen[tbl.SiteKey] = true
		return nil
	}

	for i, tbl := range t.Flat {
		if err := check("flat", i, tbl); err != nil {
			return err
		}
	}
	for i, tbl := range t.Grouped {
		if err := check("grouped", i, tbl); err != nil {
			return err
		}
		if tbl.GroupKey == "" {
			return eris.Errorf("lookup: grouped table %q: group_key is required", tbl.SiteKey)
		}
	}
	return nil
}
