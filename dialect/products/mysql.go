package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

const mysqlVersionQuery = "SELECT VERSION()"

func mysqlFamily(id, name string, aliases []string) dialect.Profile {
	return dialect.Profile{
		ID:      id,
		Name:    name,
		Aliases: aliases,
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: false,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			CatalogIsSchema:         true,
		},
		Quoter: dialect.Backticks,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT SUBSTRING_INDEX(USER(),'@',1)"},
			CurrentSchema: dialect.Probe{SQL: "SELECT DATABASE()"},
			ChangeSchema:  "USE %s",
		},
		Statements: dialect.StatementRules{
			Delimiter:          ";",
			DelimiterDirective: "DELIMITER",
			Quotes:             "'\"`",
			BackslashEscapes:   true,
			HashComments:       true,
		},
		Schemas: dialect.SchemaSQL{
			QueryDialect:  "mysql",
			CatalogSchema: "information_schema",
			CatalogTable:  "schemata",
			NameColumn:    "schema_name",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s",
		},
	}
}

func mySQL() dialect.Profile {
	p := mysqlFamily("mysql", "MySQL", []string{"mysql community server"})
	p.Capabilities.MinVersion = version(5, 7)
	p.Detection = dialect.Detection{
		Query:          mysqlVersionQuery,
		Match:          `^\d+\.\d+\.\d+`,
		VersionPattern: `^(\d+)\.(\d+)`,
	}

	return p
}

func mariaDB() dialect.Profile {
	p := mysqlFamily("mariadb", "MariaDB", nil)
	p.Capabilities.MinVersion = version(10, 2)
	p.Detection = dialect.Detection{
		Query:          mysqlVersionQuery,
		Match:          `(?i)mariadb`,
		VersionPattern: `^(?:5\.5\.5-)?(\d+)\.(\d+)`,
	}

	return p
}
