package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

func derby() dialect.Profile {
	return dialect.Profile{
		ID:      "derby",
		Name:    "Derby",
		Aliases: []string{"Apache Derby"},
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: true,
			BooleanTrue:             "true",
			BooleanFalse:            "false",
			CatalogIsSchema:         false,
			SingleConnectionOnly:    true,
			MinVersion:              version(10, 8),
			MinVersionLabel:         "10.8.1.2",
		},
		Quoter: dialect.DoubleQuotes,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT CURRENT_USER FROM SYSIBM.SYSDUMMY1"},
			CurrentSchema: dialect.Probe{SQL: "SELECT CURRENT SCHEMA FROM SYSIBM.SYSDUMMY1"},
			ChangeSchema:  "SET SCHEMA %s",
		},
		Detection: dialect.Detection{
			Query:          "VALUES SYSCS_UTIL.SYSCS_GET_DATABASE_PROPERTY('DataDictionaryVersion')",
			Match:          `^\d+\.\d+`,
			VersionPattern: `^(\d+)\.(\d+)`,
		},
		Statements: dialect.StatementRules{
			Delimiter: ";",
			Quotes:    `'"`,
		},
		Schemas: dialect.SchemaSQL{
			CatalogSchema: "SYS",
			CatalogTable:  "SYSSCHEMAS",
			NameColumn:    "SCHEMANAME",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s RESTRICT",
		},
	}
}
