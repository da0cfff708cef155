package products

import (
	"github.com/lib/pq"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// PostgresQuoter quotes like libpq: "name" with embedded double quotes doubled.
type PostgresQuoter struct{}

// Quote implements dialect.Quoter.
func (PostgresQuoter) Quote(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

// Unquote implements dialect.Quoter.
func (PostgresQuoter) Unquote(s string) (string, bool) {
	return dialect.DoubleQuotes.Unquote(s)
}

// IsQuoted implements dialect.Quoter.
func (PostgresQuoter) IsQuoted(s string) bool {
	return dialect.DoubleQuotes.IsQuoted(s)
}

// builtins lists the constructors in detection order. Products that answer another
// product's detection query come first: CockroachDB and Redshift report themselves
// through version() like PostgreSQL, MariaDB through VERSION() like MySQL.
var builtins = []func() dialect.Profile{
	derby,
	cockroachDB,
	redshift,
	postgreSQL,
	mariaDB,
	mySQL,
	sqlite,
	sqlServer,
	oracle,
	h2,
	hsqldb,
	db2,
}

// Builtin returns fresh copies of all built-in profiles in detection order.
func Builtin() []dialect.Profile {
	out := make([]dialect.Profile, 0, len(builtins))
	for _, build := range builtins {
		out = append(out, build())
	}

	return out
}

// ByID returns the built-in profile for a product id or alias in any spelling.
func ByID(product string) (dialect.Profile, bool) {
	key := dialect.NormalizeProductID(product)

	for _, build := range builtins {
		p := build()
		if p.ID == key {
			return p, true
		}
		for _, alias := range p.Aliases {
			if dialect.NormalizeProductID(alias) == key {
				return p, true
			}
		}
	}

	return dialect.Profile{}, false
}

func version(major, minor int) dialect.Version {
	return dialect.Version{Major: major, Minor: minor}
}
