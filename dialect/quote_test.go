package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

var backslashQuotes = dialect.EnclosingQuoter{Open: `"`, Close: `"`, Escape: dialect.EscapeBackslash}

func Test_Quoter_Quote(t *testing.T) {
	tests := []struct {
		name       string
		quoter     dialect.EnclosingQuoter
		identifier string
		expected   string
	}{
		{name: "double_quotes_plain", quoter: dialect.DoubleQuotes, identifier: "orders", expected: `"orders"`},
		{name: "double_quotes_embedded_quote_is_doubled", quoter: dialect.DoubleQuotes, identifier: `a"b`, expected: `"a""b"`},
		{name: "double_quotes_keep_case_and_spaces", quoter: dialect.DoubleQuotes, identifier: "Order Items", expected: `"Order Items"`},
		{name: "backticks_embedded_backtick_is_doubled", quoter: dialect.Backticks, identifier: "a`b", expected: "`a``b`"},
		{name: "brackets_closing_bracket_is_doubled", quoter: dialect.Brackets, identifier: "a]b[c", expected: "[a]]b[c]"},
		{name: "backslash_style_escapes_quote_and_backslash", quoter: backslashQuotes, identifier: `a"b\c`, expected: `"a\"b\\c"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.quoter.Quote(tc.identifier))
			assert.Equal(t, tc.quoter.Quote(tc.identifier), tc.quoter.Quote(tc.identifier), "quote must be deterministic")
		})
	}
}

func Test_Quoter_ShouldRoundTrip_ThroughUnquote(t *testing.T) {
	identifiers := []string{"orders", "APP", "Order Items", `a"b`, "a`b", "a]b", `back\slash`, "", "ümlaut"}
	quoters := map[string]dialect.EnclosingQuoter{
		"double_quotes": dialect.DoubleQuotes,
		"backticks":     dialect.Backticks,
		"brackets":      dialect.Brackets,
		"backslash":     backslashQuotes,
	}

	for name, q := range quoters {
		for _, identifier := range identifiers {
			quoted := q.Quote(identifier)

			unquoted, ok := q.Unquote(quoted)

			assert.True(t, ok, "%s: %q", name, quoted)
			assert.Equal(t, identifier, unquoted, "%s: %q", name, quoted)
			assert.True(t, q.IsQuoted(quoted), "%s: %q", name, quoted)
		}
	}
}

func Test_Quoter_IsQuoted_ShouldRejectMalformedInput(t *testing.T) {
	assert.False(t, dialect.DoubleQuotes.IsQuoted("orders"))
	assert.False(t, dialect.DoubleQuotes.IsQuoted(`"orders`))
	assert.False(t, dialect.DoubleQuotes.IsQuoted(`"a"b"`))
	assert.False(t, dialect.Brackets.IsQuoted(`"orders"`))
	assert.False(t, backslashQuotes.IsQuoted(`"a\"`))
	assert.True(t, dialect.Brackets.IsQuoted("[a]]b]"))
}

func Test_QuoteQualified_ShouldQuoteEveryPartAndSkipEmptyOnes(t *testing.T) {
	assert.Equal(t, `"app"."orders"`, dialect.QuoteQualified(dialect.DoubleQuotes, "app", "orders"))
	assert.Equal(t, `"orders"`, dialect.QuoteQualified(dialect.DoubleQuotes, "", "orders"))
	assert.Equal(t, "[db].[dbo].[t]", dialect.QuoteQualified(dialect.Brackets, "db", "dbo", "t"))
	assert.Empty(t, dialect.QuoteQualified(dialect.DoubleQuotes))
}

func Test_ParseEscapeStyle(t *testing.T) {
	style, ok := dialect.ParseEscapeStyle("Backslash")
	assert.True(t, ok)
	assert.Equal(t, dialect.EscapeBackslash, style)

	style, ok = dialect.ParseEscapeStyle("")
	assert.True(t, ok)
	assert.Equal(t, dialect.EscapeDoubling, style)
	assert.Equal(t, "doubling", style.String())

	_, ok = dialect.ParseEscapeStyle("tripling")
	assert.False(t, ok)
}
