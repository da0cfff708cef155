package products

import "github.com/AntonStoeckl/sqldialect-go/dialect"

func oracle() dialect.Profile {
	return dialect.Profile{
		ID:      "oracle",
		Name:    "Oracle",
		Aliases: []string{"oracle database"},
		Capabilities: dialect.Capabilities{
			SupportsDDLTransactions: false,
			BooleanTrue:             "1",
			BooleanFalse:            "0",
			MinVersion:              version(12, 2),
		},
		Quoter: dialect.DoubleQuotes,
		Probes: dialect.Probes{
			CurrentUser:   dialect.Probe{SQL: "SELECT USER FROM DUAL"},
			CurrentSchema: dialect.Probe{SQL: "SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') FROM DUAL"},
			ChangeSchema:  "ALTER SESSION SET CURRENT_SCHEMA=%s",
		},
		Detection: dialect.Detection{
			Query:          "SELECT banner FROM v$version WHERE ROWNUM = 1",
			Match:          `^Oracle`,
			VersionPattern: `Release (\d+)\.(\d+)`,
		},
		Statements: dialect.StatementRules{
			Delimiter:       ";",
			BlockTerminator: "/",
			Quotes:          `'"`,
			BlockPrefixes: []string{
				"DECLARE",
				"BEGIN",
				"CREATE FUNCTION",
				"CREATE PROCEDURE",
				"CREATE PACKAGE",
				"CREATE TRIGGER",
				"CREATE TYPE BODY",
				"CREATE OR REPLACE FUNCTION",
				"CREATE OR REPLACE PROCEDURE",
				"CREATE OR REPLACE PACKAGE",
				"CREATE OR REPLACE TRIGGER",
				"CREATE OR REPLACE TYPE BODY",
			},
		},
		Schemas: dialect.SchemaSQL{
			CatalogTable: "ALL_USERS",
			NameColumn:   "USERNAME",
			Create:       "CREATE USER %s IDENTIFIED BY VALUES 'none' ACCOUNT LOCK",
			Drop:         "DROP USER %s CASCADE",
		},
	}
}
