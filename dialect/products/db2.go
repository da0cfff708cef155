package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

func db2() dialect.Profile {
	return dialect.Profile{
		ID:      "db2",
		Name:    "DB2",
		Aliases: []string{"ibm db2", "db2/linuxx8664"},
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: true,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			MinVersion:              version(9, 7),
		},
		Quoter: dialect.DoubleQuotes,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT CURRENT_USER FROM SYSIBM.SYSDUMMY1"},
			CurrentSchema: dialect.Probe{SQL: "SELECT CURRENT SCHEMA FROM SYSIBM.SYSDUMMY1"},
			ChangeSchema:  "SET SCHEMA %s",
		},
		Detection: dialect.Detection{
			Query:          "SELECT service_level FROM TABLE (sysproc.env_get_inst_info()) AS INSTANCEINFO",
			Match:          `^DB2`,
			VersionPattern: `v(\d+)\.(\d+)`,
		},
		Statements: dialect.StatementRules{
			Delimiter:     ";",
			Quotes:        `'"`,
			BlockPrefixes: []string{"BEGIN", "CREATE PROCEDURE", "CREATE FUNCTION", "CREATE TRIGGER", "CREATE OR REPLACE PROCEDURE"},
		},
		Schemas: dialect.SchemaSQL{
			CatalogSchema: "SYSCAT",
			CatalogTable:  "SCHEMATA",
			NameColumn:    "SCHEMANAME",
			Create:        "CREATE SCHEMA %s",
			Drop:          "DROP SCHEMA %s RESTRICT",
		},
	}
}
