package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

// sqlServer binds the default schema to the login, so switching schemas per session is not possible.
func sqlServer() dialect.Profile {
	return dialect.Profile{
		ID:      "sqlserver",
		Name:    "SQL Server",
		Aliases: []string{"microsoft sql server", "mssql"},
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: true,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			MinVersion:              version(10, 0),
			MinVersionLabel:         "2008",
		},
		Quoter: dialect.Brackets,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT SUSER_SNAME()"},
			CurrentSchema: dialect.Probe{SQL: "SELECT SCHEMA_NAME()"},
		},
		Detection: dialect.Detection{
			Query:          "SELECT @@VERSION",
			Match:          `Microsoft SQL Server`,
			VersionPattern: ` - (\d+)\.(\d+)`,
		},
		Statements: dialect.StatementRules{
			Delimiter:      ";",
			BatchSeparator: "GO",
			Quotes:         `'"[`,
		},
		Schemas: dialect.SchemaSQL{
			QueryDialect:  "sqlserver",
			CatalogSchema: "sys",
			CatalogTable:  "schemas",
			NameColumn:    "name",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s",
		},
	}
}
