package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func Test_Products_ShouldListTheBuiltinProductsInOrder(t *testing.T) {
	out, _, err := run(t, "", "products")
	require.NoError(t, err)

	var listings []productListing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	require.NotEmpty(t, listings)

	assert.Equal(t, "derby", listings[0].ID)
	assert.Equal(t, "10.8.1.2", listings[0].Capabilities.MinVersionLabel)
	assert.True(t, listings[0].Detectable)

	var ids []string
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	assert.Contains(t, ids, "postgresql")
	assert.Contains(t, ids, "sqlite")
}

func Test_Products_ShouldIncludeCatalogProducts(t *testing.T) {
	catalog := filepath.Join("..", "..", "dialect", "products", "testdata", "catalog.toml")

	out, _, err := run(t, "", "products", "--catalog", catalog)
	require.NoError(t, err)

	var listings []productListing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))

	found := false
	for _, l := range listings {
		if l.ID == "acme" {
			found = true
			assert.Equal(t, "Y", l.Capabilities.BooleanTrue)
			assert.Equal(t, "2.1", l.Capabilities.MinVersionLabel)
		}
	}
	assert.True(t, found, "catalog product acme should be listed")
}

func Test_Products_ShouldFailOnMissingCatalog(t *testing.T) {
	_, _, err := run(t, "", "products", "--catalog", filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorIs(t, err, dialect.ErrInvalidCatalog)
}

func Test_Split_ShouldSplitStdinWithTheProductRules(t *testing.T) {
	script := strings.Join([]string{
		"CREATE TABLE t (id INT);",
		"DELIMITER //",
		"CREATE PROCEDURE p() BEGIN SELECT 1; SELECT 2; END//",
		"DELIMITER ;",
		"INSERT INTO t VALUES (1);",
	}, "\n")

	out, _, err := run(t, script, "split", "--product", "mysql")
	require.NoError(t, err)

	var statements []splitStatement
	require.NoError(t, json.Unmarshal([]byte(out), &statements))
	require.Len(t, statements, 3)

	assert.Equal(t, "CREATE TABLE t (id INT)", statements[0].SQL)
	assert.Equal(t, 1, statements[0].Line)
	assert.Equal(t, "//", statements[1].Delimiter)
	assert.Contains(t, statements[1].SQL, "SELECT 1; SELECT 2;")
	assert.Equal(t, 5, statements[2].Line)
}

func Test_Split_ShouldReadTheScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1\nGO\nSELECT 2\nGO\n"), 0o600))

	out, _, err := run(t, "", "split", "--product", "mssql", path)
	require.NoError(t, err)

	var statements []splitStatement
	require.NoError(t, json.Unmarshal([]byte(out), &statements))
	require.Len(t, statements, 2)
	assert.Equal(t, "SELECT 1", statements[0].SQL)
	assert.Equal(t, "SELECT 2", statements[1].SQL)
}

func Test_Split_ShouldRequireAProduct(t *testing.T) {
	_, _, err := run(t, "SELECT 1;", "split")

	assert.ErrorIs(t, err, errProductRequired)
}

func Test_Split_ShouldRejectUnknownProducts(t *testing.T) {
	_, _, err := run(t, "SELECT 1;", "split", "--product", "informix")

	var noMatch *dialect.NoMatchingAdapterError
	require.True(t, errors.As(err, &noMatch))
	assert.Equal(t, "informix", noMatch.Product)
}

func Test_Split_ShouldReportUnterminatedStatements(t *testing.T) {
	_, _, err := run(t, "SELECT 'open;", "split", "--product", "postgresql")

	assert.ErrorIs(t, err, dialect.ErrUnterminatedStatement)
}

func Test_Inspect_ShouldDetectAnInMemorySQLiteDatabase(t *testing.T) {
	out, _, err := run(t, "", "inspect", "--driver", "sqlite", "--dsn", ":memory:")
	require.NoError(t, err)

	var report inspection
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "sqlite", report.AdapterID)
	assert.Equal(t, "main", report.CurrentSchema)
	assert.Regexp(t, `^3\.\d+`, report.Banner)
	assert.True(t, report.Capabilities.SingleConnectionOnly)
	assert.Nil(t, report.Schema)
}

func Test_Inspect_ShouldBindTheRequestedProduct(t *testing.T) {
	out, _, err := run(t, "", "inspect", "--driver", "sqlite", "--dsn", ":memory:", "--product", "sqlite3")
	require.NoError(t, err)

	var report inspection
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "sqlite", report.AdapterID)
}

func Test_Inspect_ShouldFailWhenTheRequestedProductDoesNotAnswer(t *testing.T) {
	_, _, err := run(t, "", "inspect", "--driver", "sqlite", "--dsn", ":memory:", "--product", "derby")

	assert.ErrorIs(t, err, dialect.ErrDetectionFailed)
}

func Test_Inspect_ShouldLogAtTheRequestedLevel(t *testing.T) {
	_, stderr, err := run(t, "", "inspect", "--driver", "sqlite", "--dsn", ":memory:", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, stderr, "run_id=")
	assert.Contains(t, stderr, "level=")
}

func Test_Inspect_ShouldRejectInvalidInput(t *testing.T) {
	_, _, err := run(t, "", "inspect")
	assert.ErrorIs(t, err, errDSNRequired)

	_, _, err = run(t, "", "inspect", "--driver", "oracle", "--dsn", "x")
	assert.ErrorIs(t, err, errUnknownDriver)

	_, _, err = run(t, "", "inspect", "--driver", "mysql", "--dsn", "no-slash-here")
	assert.ErrorContains(t, err, "invalid mysql dsn")

	_, _, err = run(t, "", "inspect", "--driver", "sqlite", "--dsn", ":memory:", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid --log-level")
}

func Test_Inspect_ShouldLogEachEventOnce(t *testing.T) {
	_, stderr, err := run(t, "", "inspect", "--driver", "sqlite", "--dsn", ":memory:", "--log-level", "info")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(stderr, "adapter bound"), stderr)
}
