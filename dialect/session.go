package dialect

import "context"

// Session is the live backend link an adapter observes and mutates.
// It is owned by the caller; an adapter never closes it.
// Implementations must be bound to exactly one physical connection, because
// schema switches are connection state.
type Session interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) error
}

// Rows defines the interface for query result rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
