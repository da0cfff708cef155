package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

func h2() dialect.Profile {
	return dialect.Profile{
		ID:   "h2",
		Name: "H2",
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: false,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			MinVersion:              version(1, 2),
			MinVersionLabel:         "1.2.137",
		},
		Quoter: dialect.DoubleQuotes,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT USER()"},
			CurrentSchema: dialect.Probe{SQL: "SELECT SCHEMA()"},
			ChangeSchema:  "SET SCHEMA %s",
		},
		Detection: dialect.Detection{
			Query:          "SELECT H2VERSION()",
			Match:          `^\d+\.\d+`,
			VersionPattern: `^(\d+)\.(\d+)`,
		},
		Statements: dialect.StatementRules{
			Delimiter:     ";",
			Quotes:        `'"`,
			DollarQuoting: true,
		},
		Schemas: dialect.SchemaSQL{
			CatalogSchema: "INFORMATION_SCHEMA",
			CatalogTable:  "SCHEMATA",
			NameColumn:    "SCHEMA_NAME",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s CASCADE",
		},
	}
}

func hsqldb() dialect.Profile {
	return dialect.Profile{
		ID:      "hsqldb",
		Name:    "HSQLDB",
		Aliases: []string{"hsql database engine"},
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: false,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			SingleConnectionOnly:    true,
			MinVersion:              version(1, 8),
		},
		Quoter: dialect.DoubleQuotes,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT USER() FROM (VALUES(0))"},
			CurrentSchema: dialect.Probe{SQL: "VALUES (CURRENT_SCHEMA)"},
			ChangeSchema:  "SET SCHEMA %s",
		},
		Detection: dialect.Detection{
			Query:          "CALL DATABASE_VERSION()",
			Match:          `^\d+\.\d+`,
			VersionPattern: `^(\d+)\.(\d+)`,
		},
		Statements: dialect.StatementRules{
			Delimiter:     ";",
			Quotes:        `'"`,
			BlockPrefixes: []string{"CREATE TRIGGER", "CREATE PROCEDURE", "CREATE FUNCTION"},
		},
		Schemas: dialect.SchemaSQL{
			CatalogSchema: "INFORMATION_SCHEMA",
			CatalogTable:  "SCHEMATA",
			NameColumn:    "SCHEMA_NAME",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s CASCADE",
		},
	}
}
