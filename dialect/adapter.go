package dialect

import "context"

// Adapter is the dialect capability contract one migration engine runs against.
// An Adapter is bound to one live Session for that session's lifetime, has passed
// the version gate before it is handed out, and is not safe for concurrent use.
type Adapter interface {
	// ID identifies this bound instance in logs and traces.
	ID() string

	// Product describes the detected backend.
	Product() ProductInfo

	// Capabilities returns a copy of the product's fixed traits.
	Capabilities() Capabilities

	Quote(identifier string) string
	QuoteQualified(parts ...string) string

	CurrentUser(ctx context.Context) (string, error)
	CurrentSchema(ctx context.Context) (string, error)
	ChangeSchema(ctx context.Context, name string) error
	RestoreOriginalSchema(ctx context.Context) error

	Schema(name string) Schema
	NewStatementBuilder() *StatementBuilder

	SupportsDDLTransactions() bool
	BooleanTrue() string
	BooleanFalse() string
	CatalogIsSchema() bool
	UseSingleConnection() bool
}
