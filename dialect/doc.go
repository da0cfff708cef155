// Package dialect defines the contract a schema-migration engine runs against to
// stay independent of the SQL database product behind a connection.
//
// The package holds the pieces every backend shares:
//   - Adapter: the per-connection capability contract
//   - Capabilities: the fixed traits of one product, including the version gate
//   - Quoter: dialect-safe identifier quoting with strict per-dialect escaping
//   - StatementBuilder: a per-script splitter configured by StatementRules
//   - Schema: a handle on one named schema inside one backend
//   - Profile: the immutable per-product configuration a generic adapter is built from
//
// Concrete adapters and the registry that binds them to live sessions live in
// the sqlengine package; built-in product profiles live in the products package.
//
// Common usage pattern:
//
//	adapter, err := sqlengine.DefaultRegistry().Bind(ctx, session)
//	if err != nil {
//		// errors.Is(err, dialect.ErrUnsupportedVersion), errors.Is(err, dialect.ErrNoMatchingAdapter), ...
//	}
//
//	if err := adapter.ChangeSchema(ctx, "APP"); err != nil {
//		// handle error
//	}
//
//	builder := adapter.NewStatementBuilder()
//	statements, err := builder.Parse(script)
package dialect
