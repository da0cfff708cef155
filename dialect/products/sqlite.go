package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

// sqlite has no users and no per-session schema switch. Attached databases act as schemas.
func sqlite() dialect.Profile {
	return dialect.Profile{
		ID:      "sqlite",
		Name:    "SQLite",
		Aliases: []string{"sqlite3"},
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: true,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			SingleConnectionOnly:    true,
			MinVersion:              version(3, 7),
		},
		Quoter: dialect.DoubleQuotes,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{Static: ""},
			CurrentSchema: dialect.Probe{Static: "main"},
		},
		Detection: dialect.Detection{
			Query: "SELECT sqlite_version()",
			Match: `^3\.\d+`,
		},
		Statements: dialect.StatementRules{
			Delimiter:     ";",
			Quotes:        "'\"`[",
			BlockPrefixes: []string{"CREATE TRIGGER", "CREATE TEMP TRIGGER", "CREATE TEMPORARY TRIGGER"},
		},
		Schemas: dialect.SchemaSQL{
			QueryDialect: "sqlite3",
			CatalogTable: "pragma_database_list",
			NameColumn:   "name",
		},
	}
}
