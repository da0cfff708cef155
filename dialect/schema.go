package dialect

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"     // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"  // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"   // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlserver" // dialect import
)

const defaultQueryDialect = "default"

// Schema is a handle on one named schema inside one backend.
// It is immutable; two handles for the same name on the same adapter behave identically.
type Schema struct {
	name    string
	adapter Adapter
	session Session
	quoter  Quoter
	sql     SchemaSQL
}

// NewSchema builds a handle bound to adapter. No I/O happens here.
func NewSchema(adapter Adapter, session Session, profile Profile, name string) Schema {
	return Schema{
		name:    name,
		adapter: adapter,
		session: session,
		quoter:  profile.Quoter,
		sql:     profile.Schemas,
	}
}

// Name returns the unquoted schema name.
func (s Schema) Name() string {
	return s.name
}

// Quoted returns the schema name quoted by the owning dialect.
func (s Schema) Quoted() string {
	return s.quoter.Quote(s.name)
}

// Table returns the schema-qualified, quoted name of table.
func (s Schema) Table(table string) string {
	return QuoteQualified(s.quoter, s.name, table)
}

// Adapter returns the owning adapter.
func (s Schema) Adapter() Adapter {
	return s.adapter
}

// String returns the quoted name.
func (s Schema) String() string {
	return s.Quoted()
}

// ExistsQuery renders the catalog lookup for this schema in the product's placeholder style.
func (s Schema) ExistsQuery() (string, []any, error) {
	if s.sql.CatalogTable == "" || s.sql.NameColumn == "" {
		return "", nil, errors.Join(ErrOperationNotSupported, errors.New("no schema catalog configured"))
	}

	d := s.sql.QueryDialect
	if d == "" {
		d = defaultQueryDialect
	}

	table := goqu.T(s.sql.CatalogTable)
	if s.sql.CatalogSchema != "" {
		table = table.Schema(s.sql.CatalogSchema)
	}

	query, args, err := goqu.Dialect(d).
		From(table).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(s.sql.NameColumn).Eq(s.name)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrSchemaQueryFailed, err)
	}

	return query, args, nil
}

// Exists reports whether the schema is present in the backend catalog.
func (s Schema) Exists(ctx context.Context) (bool, error) {
	if s.session == nil {
		return false, ErrUnboundAdapter
	}

	query, args, err := s.ExistsQuery()
	if err != nil {
		return false, err
	}

	rows, err := s.session.Query(ctx, query, args...)
	if err != nil {
		return false, errors.Join(ErrSchemaQueryFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var count int64
	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return false, errors.Join(ErrSchemaQueryFailed, rowsErr)
		}
		return false, nil
	}
	if err := rows.Scan(&count); err != nil {
		return false, errors.Join(ErrSchemaQueryFailed, err)
	}

	return count > 0, nil
}

// Create issues the product's CREATE SCHEMA statement.
func (s Schema) Create(ctx context.Context) error {
	return s.execFormatted(ctx, s.sql.Create, "create")
}

// Drop issues the product's DROP SCHEMA statement. Objects inside the schema are not cleaned first.
func (s Schema) Drop(ctx context.Context) error {
	return s.execFormatted(ctx, s.sql.Drop, "drop")
}

func (s Schema) execFormatted(ctx context.Context, format, action string) error {
	if s.session == nil {
		return ErrUnboundAdapter
	}
	if format == "" {
		return errors.Join(ErrOperationNotSupported, fmt.Errorf("%s schema", action))
	}

	if err := s.session.Exec(ctx, fmt.Sprintf(format, s.Quoted())); err != nil {
		return errors.Join(ErrSchemaQueryFailed, fmt.Errorf("%s schema %s", action, s.Quoted()), err)
	}

	return nil
}
