package dialect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

var ansiRules = dialect.StatementRules{Delimiter: ";", Quotes: `'"`}

func parse(t *testing.T, rules dialect.StatementRules, script string) []dialect.Statement {
	t.Helper()

	statements, err := dialect.NewStatementBuilder(rules).Parse(strings.NewReader(script))
	require.NoError(t, err)

	return statements
}

func sqlOf(statements []dialect.Statement) []string {
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.SQL)
	}

	return out
}

//nolint:funlen
func Test_StatementBuilder_Parse(t *testing.T) {
	tests := []struct {
		name     string
		rules    dialect.StatementRules
		script   string
		expected []string
	}{
		{
			name:     "one_statement_per_line",
			rules:    ansiRules,
			script:   "CREATE TABLE a (id INT);\nINSERT INTO a VALUES (1);\n",
			expected: []string{"CREATE TABLE a (id INT)", "INSERT INTO a VALUES (1)"},
		},
		{
			name:     "several_statements_on_one_line",
			rules:    ansiRules,
			script:   "SELECT 1; SELECT 2;",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "statement_spanning_lines",
			rules:    ansiRules,
			script:   "CREATE TABLE a (\n  id INT\n);",
			expected: []string{"CREATE TABLE a (\n  id INT\n)"},
		},
		{
			name:     "delimiter_inside_string_literal",
			rules:    ansiRules,
			script:   "INSERT INTO a VALUES ('x;y');",
			expected: []string{"INSERT INTO a VALUES ('x;y')"},
		},
		{
			name:     "doubled_quote_inside_string_literal",
			rules:    ansiRules,
			script:   "SELECT 'it''s;';",
			expected: []string{"SELECT 'it''s;'"},
		},
		{
			name:     "delimiter_inside_quoted_identifier",
			rules:    ansiRules,
			script:   `CREATE TABLE "a;b" (id INT);`,
			expected: []string{`CREATE TABLE "a;b" (id INT)`},
		},
		{
			name:     "comments_between_statements_are_dropped",
			rules:    ansiRules,
			script:   "-- setup;\nSELECT 1; -- trailing;\n/* block; */\nSELECT 2;",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "statement_without_final_delimiter",
			rules:    ansiRules,
			script:   "SELECT 1;\nSELECT 2",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "blank_script",
			rules:    ansiRules,
			script:   "\n\n   \n",
			expected: []string{},
		},
		{
			name: "mysql_delimiter_directive",
			rules: dialect.StatementRules{
				Delimiter: ";", DelimiterDirective: "DELIMITER", Quotes: "'\"`",
				BackslashEscapes: true, HashComments: true,
			},
			script: "DELIMITER $$\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND$$\nDELIMITER ;\n# comment;\nSELECT 'a\\';b';",
			expected: []string{
				"CREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND",
				`SELECT 'a\';b'`,
			},
		},
		{
			name:     "sqlserver_batch_separator",
			rules:    dialect.StatementRules{Delimiter: ";", BatchSeparator: "GO", Quotes: `'"[`},
			script:   "CREATE TABLE [a;b] (id INT)\nGO\nSELECT 1\ngo\n",
			expected: []string{"CREATE TABLE [a;b] (id INT)", "SELECT 1"},
		},
		{
			name: "oracle_block_terminated_by_slash",
			rules: dialect.StatementRules{
				Delimiter: ";", BlockTerminator: "/", Quotes: `'"`,
				BlockPrefixes: []string{"CREATE OR REPLACE PROCEDURE", "BEGIN", "DECLARE"},
			},
			script: "CREATE TABLE t (id NUMBER);\nCREATE OR REPLACE PROCEDURE p AS\nBEGIN\n  NULL;\nEND;\n/\nSELECT 1 FROM dual;",
			expected: []string{
				"CREATE TABLE t (id NUMBER)",
				"CREATE OR REPLACE PROCEDURE p AS\nBEGIN\n  NULL;\nEND;",
				"SELECT 1 FROM dual",
			},
		},
		{
			name: "sqlite_trigger_with_begin_end",
			rules: dialect.StatementRules{
				Delimiter: ";", Quotes: "'\"`[",
				BlockPrefixes: []string{"CREATE TRIGGER"},
			},
			script: "CREATE TRIGGER trg AFTER INSERT ON a\nBEGIN\n  UPDATE b SET n = n + 1;\n  SELECT CASE WHEN 1 THEN 2 END;\nEND;\nSELECT 1;",
			expected: []string{
				"CREATE TRIGGER trg AFTER INSERT ON a\nBEGIN\n  UPDATE b SET n = n + 1;\n  SELECT CASE WHEN 1 THEN 2 END;\nEND",
				"SELECT 1",
			},
		},
		{
			name: "postgres_dollar_quoting_and_nested_comments",
			rules: dialect.StatementRules{
				Delimiter: ";", Quotes: `'"`, DollarQuoting: true, NestedComments: true,
			},
			script: "CREATE FUNCTION f() RETURNS int AS $body$\nBEGIN\n  RETURN 1;\nEND;\n$body$ LANGUAGE plpgsql;\n/* outer /* inner; */ still comment; */\nSELECT $1;",
			expected: []string{
				"CREATE FUNCTION f() RETURNS int AS $body$\nBEGIN\n  RETURN 1;\nEND;\n$body$ LANGUAGE plpgsql",
				"SELECT $1",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, sqlOf(parse(t, tc.rules, tc.script)))
		})
	}
}

func Test_StatementBuilder_ShouldTrackStartLineAndDelimiter(t *testing.T) {
	statements := parse(t, ansiRules, "-- header\n\nSELECT 1;\nSELECT\n  2;\nSELECT 3")

	require.Len(t, statements, 3)
	assert.Equal(t, 3, statements[0].Line)
	assert.Equal(t, 4, statements[1].Line)
	assert.Equal(t, 6, statements[2].Line)
	assert.Equal(t, ";", statements[0].Delimiter)
	assert.Empty(t, statements[2].Delimiter)
}

func Test_StatementBuilder_ShouldFail_WhenScriptEndsInsideLiteral(t *testing.T) {
	for name, script := range map[string]string{
		"string_literal": "SELECT 'abc",
		"block_comment":  "SELECT 1;\n/* never closed",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := dialect.NewStatementBuilder(ansiRules).Parse(strings.NewReader(script))

			assert.ErrorIs(t, err, dialect.ErrUnterminatedStatement)
		})
	}
}

func Test_StatementBuilder_ShouldYieldStatementsIncrementally(t *testing.T) {
	b := dialect.NewStatementBuilder(ansiRules)

	b.AddLine("SELECT 1; SELECT")
	first, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", first.SQL)
	_, ok = b.Next()
	assert.False(t, ok)
	assert.False(t, b.IsTerminated())

	b.AddLine("2;")
	second, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, "SELECT\n2", second.SQL)
	assert.Equal(t, 1, second.Line)
	assert.True(t, b.IsTerminated())
}

func Test_StatementBuilder_ShouldNotShareStateBetweenBuilders(t *testing.T) {
	rules := dialect.StatementRules{Delimiter: ";", DelimiterDirective: "DELIMITER", Quotes: "'"}
	first := dialect.NewStatementBuilder(rules)
	second := dialect.NewStatementBuilder(rules)

	first.AddLine("DELIMITER //")
	first.AddLine("SELECT 'open")

	assert.Equal(t, "//", first.Delimiter())
	assert.False(t, first.IsTerminated())
	assert.Equal(t, ";", second.Delimiter())
	assert.True(t, second.IsTerminated())
}

func Test_NewStatementBuilder_ShouldDefaultToSemicolon(t *testing.T) {
	assert.Equal(t, ";", dialect.NewStatementBuilder(dialect.StatementRules{}).Delimiter())
}
