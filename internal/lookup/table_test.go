package lookup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	require.Len(t, tables.Flat, 1)
	assert.Equal(t, Table{
		SiteKey: "agency_cd",
		CodeKey: "agency_cd",
		NameKey: "party_nm",
		Path:    "agency_cd_querya",
	}, tables.Flat[0])

	require.Len(t, tables.Grouped, 1)
	assert.Equal(t, "nat_aqfr_cd", tables.Grouped[0].SiteKey)
	assert.Equal(t, "state_cd", tables.Grouped[0].GroupKey)
	assert.Equal(t, "nat_aqfr_query", tables.Grouped[0].Path)
}

func TestTableEndpoint(t *testing.T) {
	tests := []struct {
		name string
		tbl  Table
		base string
		want string
	}{
		{"path", Table{Path: "agency_cd_querya"}, "https://help.waterdata.usgs.gov/code", "https://help.waterdata.usgs.gov/code/agency_cd_querya"},
		{"trailing slash", Table{Path: "/topo_cd_query"}, "https://help.waterdata.usgs.gov/code/", "https://help.waterdata.usgs.gov/code/topo_cd_query"},
		{"absolute url wins", Table{Path: "x", URL: "https://other.example/q"}, "https://help.waterdata.usgs.gov/code", "https://other.example/q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tbl.Endpoint(tt.base))
		})
	}
}

func TestParseTables_WithParamsAndDesc(t *testing.T) {
	data := `
tables:
  - site_key: parm_cd
    code_key: parm_cd
    name_key: parm_nm
    path: parameter_cd_query
    params:
      group_cd: "%"
  - site_key: topo_cd
    code_key: gw_ref_cd
    name_key: gw_ref_nm
    desc_key: gw_ref_ds
    path: topo_cd_query
`
	tables, err := ParseTables([]byte(data))
	require.NoError(t, err)
	require.Len(t, tables.Flat, 2)
	assert.Equal(t, map[string]string{"group_cd": "%"}, tables.Flat[0].Params)
	assert.Equal(t, "gw_ref_ds", tables.Flat[1].DescKey)
	assert.Empty(t, tables.Grouped)
}

func TestParseTables_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "tables: [", "parse tables"},
		{"no site key", "tables:\n  - code_key: a\n    name_key: b\n    path: c\n", "site_key is required"},
		{"no code key", "tables:\n  - site_key: s\n    name_key: b\n    path: c\n", "code_key is required"},
		{"no name key", "tables:\n  - site_key: s\n    code_key: a\n    path: c\n", "name_key is required"},
		{"no path", "tables:\n  - site_key: s\n    code_key: a\n    name_key: b\n", "path or url is required"},
		{"no group key", "grouped_tables:\n  - site_key: s\n    code_key: a\n    name_key: b\n    path: c\n", "group_key is required"},
		{"duplicate", "tables:\n  - {site_key: s, code_key: a, name_key: b, path: c}\n" +
			"grouped_tables:\n  - {site_key: s, code_key: a, name_key: b, path: c, group_key: g}\n", "duplicate site_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTables(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		tables, err := LoadTables("")
		require.NoError(t, err)
		assert.Len(t, tables.Flat, 1)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tables:\n  - {site_key: s, code_key: a, name_key: b, path: c}\n"), 0o644))

		tables, err := LoadTables(path)
		require.NoError(t, err)
		require.Len(t, tables.Flat, 1)
		assert.Equal(t, "s", tables.Flat[0].SiteKey)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read tables file")
	})
}
