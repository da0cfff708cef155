package dialect

import "strings"

// Quoter renders identifiers as dialect-safe quoted tokens and recognizes quoted input.
type Quoter interface {
	// Quote wraps identifier and escapes every embedded closing quote.
	Quote(identifier string) string

	// Unquote reverses Quote. It reports false when s is not a well-formed quoted identifier.
	Unquote(s string) (string, bool)

	// IsQuoted reports whether s is a well-formed quoted identifier.
	IsQuoted(s string) bool
}

// EscapeStyle selects how a quote character inside an identifier is escaped.
type EscapeStyle int

const (
	// EscapeDoubling writes the closing quote twice: "a""b" (ANSI, MySQL backticks, SQL Server brackets).
	EscapeDoubling EscapeStyle = iota

	// EscapeBackslash prefixes the closing quote and backslash with a backslash: "a\"b".
	EscapeBackslash
)

// String provides a string representation of EscapeStyle for logging and catalogs.
func (s EscapeStyle) String() string {
	switch s {
	case EscapeDoubling:
		return "doubling"
	case EscapeBackslash:
		return "backslash"
	default:
		return "unknown"
	}
}

// ParseEscapeStyle maps "doubling" / "backslash" (empty means doubling) to an EscapeStyle.
func ParseEscapeStyle(s string) (EscapeStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "doubling":
		return EscapeDoubling, true
	case "backslash":
		return EscapeBackslash, true
	default:
		return EscapeDoubling, false
	}
}

// EnclosingQuoter quotes by enclosing the identifier in Open and Close.
type EnclosingQuoter struct {
	Open   string
	Close  string
	Escape EscapeStyle
}

// DoubleQuotes is the ANSI quoter: "orders", with embedded quotes doubled.
var DoubleQuotes = EnclosingQuoter{Open: `"`, Close: `"`, Escape: EscapeDoubling}

// Backticks is the MySQL quoter: `orders`.
var Backticks = EnclosingQuoter{Open: "`", Close: "`", Escape: EscapeDoubling}

// Brackets is the SQL Server quoter: [orders], with "]" doubled.
var Brackets = EnclosingQuoter{Open: "[", Close: "]", Escape: EscapeDoubling}

// Quote implements Quoter.
func (q EnclosingQuoter) Quote(identifier string) string {
	var b strings.Builder
	b.Grow(len(identifier) + len(q.Open) + len(q.Close) + 2)
	b.WriteString(q.Open)

	switch q.Escape {
	case EscapeBackslash:
		for i := 0; i < len(identifier); i++ {
			c := identifier[i]
			if c == '\\' || strings.HasPrefix(identifier[i:], q.Close) {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	default:
		b.WriteString(strings.ReplaceAll(identifier, q.Close, q.Close+q.Close))
	}

	b.WriteString(q.Close)

	return b.String()
}

// Unquote implements Quoter.
func (q EnclosingQuoter) Unquote(s string) (string, bool) {
	if q.Open == "" || q.Close == "" {
		return "", false
	}
	if len(s) < len(q.Open)+len(q.Close) || !strings.HasPrefix(s, q.Open) || !strings.HasSuffix(s, q.Close) {
		return "", false
	}

	inner := s[len(q.Open) : len(s)-len(q.Close)]

	var b strings.Builder
	for i := 0; i < len(inner); {
		switch {
		case q.Escape == EscapeBackslash && inner[i] == '\\':
			if i+1 >= len(inner) {
				return "", false
			}
			b.WriteByte(inner[i+1])
			i += 2

		case strings.HasPrefix(inner[i:], q.Close):
			if q.Escape == EscapeBackslash || !strings.HasPrefix(inner[i+len(q.Close):], q.Close) {
				return "", false // unescaped closing quote inside the identifier
			}
			b.WriteString(q.Close)
			i += 2 * len(q.Close)

		default:
			b.WriteByte(inner[i])
			i++
		}
	}

	return b.String(), true
}

// IsQuoted implements Quoter.
func (q EnclosingQuoter) IsQuoted(s string) bool {
	_, ok := q.Unquote(s)
	return ok
}

// QuoteQualified quotes every part and joins them with ".", e.g. "app"."orders".
func QuoteQualified(q Quoter, parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, q.Quote(p))
	}

	return strings.Join(quoted, ".")
}
