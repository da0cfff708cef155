package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

const postgresVersionQuery = "SELECT version()"

func postgresFamily(id, name string, aliases []string) dialect.Profile {
	return dialect.Profile{
		ID:      id,
		Name:    name,
		Aliases: aliases,
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: true,
			BooleanTrue:             "TRUE",
			BooleanFalse:            "FALSE",
		},
		Quoter: PostgresQuoter{},
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT current_user"},
			CurrentSchema: dialect.Probe{SQL: "SELECT current_schema()"},
			ChangeSchema:  "SET search_path = %s",
		},
		Statements: dialect.StatementRules{
			Delimiter:      ";",
			Quotes:         `'"`,
			DollarQuoting:  true,
			NestedComments: true,
		},
		Schemas: dialect.SchemaSQL{
			QueryDialect:  "postgres",
			CatalogSchema: "information_schema",
			CatalogTable:  "schemata",
			NameColumn:    "schema_name",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s CASCADE",
		},
	}
}

func postgreSQL() dialect.Profile {
	p := postgresFamily("postgresql", "PostgreSQL", []string{"postgres", "pg", "pgx"})
	p.Capabilities.MinVersion = version(11, 0)
	p.Detection = dialect.Detection{
		Query:          postgresVersionQuery,
		Match:          `^PostgreSQL`,
		VersionPattern: `^PostgreSQL (\d+)(?:\.(\d+))?`,
	}

	return p
}

func cockroachDB() dialect.Profile {
	p := postgresFamily("cockroachdb", "CockroachDB", []string{"cockroach", "crdb"})
	p.Capabilities.SupportsDDLTransactions = false
	p.Capabilities.MinVersion = version(22, 1)
	p.Statements.DollarQuoting = false
	p.Detection = dialect.Detection{
		Query:          postgresVersionQuery,
		Match:          `CockroachDB`,
		VersionPattern: `CockroachDB \w+ v(\d+)\.(\d+)`,
	}

	return p
}

func redshift() dialect.Profile {
	p := postgresFamily("redshift", "Amazon Redshift", []string{"amazon redshift"})
	p.Capabilities.MinVersion = version(1, 0)
	p.Detection = dialect.Detection{
		Query:          postgresVersionQuery,
		Match:          `Redshift`,
		VersionPattern: `Redshift (\d+)\.(\d+)`,
	}

	return p
}
