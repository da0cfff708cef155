package products_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	"github.com/AntonStoeckl/sqldialect-go/dialect/products"
)

func assertExampleCatalog(t *testing.T, profiles []dialect.Profile) {
	t.Helper()

	require.Len(t, profiles, 2)

	legacy := profiles[0]
	assert.Equal(t, "derby_legacy", legacy.ID)
	assert.Equal(t, "Derby (legacy)", legacy.Name)
	assert.Equal(t, []string{"old derby"}, legacy.Aliases)
	assert.Equal(t, dialect.Version{Major: 10, Minor: 5}, legacy.Capabilities.MinVersion)
	assert.Empty(t, legacy.Capabilities.MinVersionLabel)
	assert.Equal(t, "SET SCHEMA %s", legacy.Probes.ChangeSchema, "inherited from derby")
	assert.Equal(t, "VALUES SYSCS_UTIL.SYSCS_GET_DATABASE_PROPERTY('DataDictionaryVersion')", legacy.Detection.Query)
	assert.Equal(t, `^10\.[5-7]\.`, legacy.Detection.Match)

	acme := profiles[1]
	assert.Equal(t, "acme", acme.ID)
	assert.Equal(t, "Acme DB", acme.Name)
	assert.Equal(t, "Y", acme.Capabilities.BooleanTrue)
	assert.Equal(t, "N", acme.Capabilities.BooleanFalse)
	assert.Equal(t, "`a\\`b`", acme.Quoter.Quote("a`b"))
	assert.Equal(t, "SELECT who()", acme.Probes.CurrentUser.SQL)
	assert.True(t, acme.Probes.CurrentSchema.IsStatic())
	assert.Equal(t, "PUBLIC", acme.Probes.CurrentSchema.Static)
	assert.Empty(t, acme.Probes.ChangeSchema)
	assert.Equal(t, "!!", acme.Statements.Delimiter)
	assert.Equal(t, `'"`, acme.Statements.Quotes)
}

func Test_LoadCatalog_ShouldResolve_TOMLCatalogs(t *testing.T) {
	profiles, err := products.LoadCatalog(filepath.Join("testdata", "catalog.toml"))
	require.NoError(t, err)

	assertExampleCatalog(t, profiles)
}

func Test_LoadCatalog_ShouldResolve_YAMLCatalogs(t *testing.T) {
	profiles, err := products.LoadCatalog(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	assertExampleCatalog(t, profiles)
}

func Test_LoadCatalog_ShouldReject_UnknownExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := products.LoadCatalog(path)
	assert.ErrorIs(t, err, dialect.ErrInvalidCatalog)
}

func Test_LoadCatalog_ShouldReject_MissingFiles(t *testing.T) {
	_, err := products.LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, dialect.ErrInvalidCatalog)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_ParseCatalog_ShouldAccept_EmptyCatalogs(t *testing.T) {
	for _, format := range []products.Format{products.FormatTOML, products.FormatYAML} {
		profiles, err := products.ParseCatalog(nil, format)
		require.NoError(t, err)
		assert.Empty(t, profiles)
	}
}

func Test_ParseCatalog_ShouldLet_EntriesExtendEarlierEntries(t *testing.T) {
	catalog := `
[[products]]
id = "acme"
boolean_true = "1"
boolean_false = "0"

[[products]]
id = "acme_cloud"
extends = "acme"
name = "Acme Cloud"
supports_ddl_transactions = true
`
	profiles, err := products.ParseCatalog([]byte(catalog), products.FormatTOML)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "acme", profiles[0].Name, "name defaults to the id")
	assert.Equal(t, "1", profiles[1].Capabilities.BooleanTrue)
	assert.True(t, profiles[1].Capabilities.SupportsDDLTransactions)
	assert.False(t, profiles[0].Capabilities.SupportsDDLTransactions)
}

func Test_ParseCatalog_ShouldReject_BrokenCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		format  products.Format
		catalog string
		message string
	}{
		{
			name:    "unknown_toml_key",
			format:  products.FormatTOML,
			catalog: "[[products]]\nid = \"x\"\nextends = \"derby\"\nbolean_true = \"1\"\n",
			message: "unknown catalog keys: products.bolean_true",
		},
		{
			name:    "unknown_yaml_key",
			format:  products.FormatYAML,
			catalog: "products:\n  - id: x\n    extends: derby\n    bolean_true: \"1\"\n",
			message: "field bolean_true not found",
		},
		{
			name:    "malformed_toml",
			format:  products.FormatTOML,
			catalog: "[[products]\n",
			message: "parse catalog",
		},
		{
			name:    "missing_id",
			format:  products.FormatTOML,
			catalog: "[[products]]\nextends = \"derby\"\n",
			message: "id must not be empty",
		},
		{
			name:    "unknown_base",
			format:  products.FormatTOML,
			catalog: "[[products]]\nid = \"x\"\nextends = \"informix\"\n",
			message: `extends unknown product "informix"`,
		},
		{
			name:    "incomplete_profile",
			format:  products.FormatTOML,
			catalog: "[[products]]\nid = \"x\"\n",
			message: "boolean literals must not be empty",
		},
		{
			name:    "unknown_escape_style",
			format:  products.FormatTOML,
			catalog: "[[products]]\nid = \"x\"\nextends = \"derby\"\n[products.quote]\nopen = \"'\"\nclose = \"'\"\nescape = \"html\"\n",
			message: `unknown quote escape style "html"`,
		},
		{
			name:    "bad_min_version",
			format:  products.FormatTOML,
			catalog: "[[products]]\nid = \"x\"\nextends = \"derby\"\nmin_version = \"ten\"\n",
			message: `min_version "ten"`,
		},
		{
			name:    "duplicate_entry",
			format:  products.FormatYAML,
			catalog: "products:\n  - id: x\n    extends: derby\n  - id: X\n    extends: derby\n",
			message: "defined twice",
		},
		{
			name:    "unsupported_format",
			format:  products.Format("json"),
			catalog: "{}",
			message: `unsupported catalog format "json"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := products.ParseCatalog([]byte(tt.catalog), tt.format)
			assert.ErrorIs(t, err, dialect.ErrInvalidCatalog)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}
