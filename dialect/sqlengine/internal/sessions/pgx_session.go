package sessions

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// PGXConn is satisfied by both *pgx.Conn and *pgxpool.Conn.
type PGXConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGXSession implements dialect.Session for a single pgx connection.
type PGXSession struct {
	conn PGXConn
}

// NewPGXSession creates a new pgx session.
func NewPGXSession(conn PGXConn) *PGXSession {
	return &PGXSession{conn: conn}
}

// Query executes a query and returns wrapped rows.
func (p *PGXSession) Query(ctx context.Context, query string, args ...any) (dialect.Rows, error) {
	rows, err := p.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement, discarding the command tag.
func (p *PGXSession) Exec(ctx context.Context, query string, args ...any) error {
	_, err := p.conn.Exec(ctx, query, args...)
	return err
}

// pgxRows wraps pgx.Rows to implement the dialect.Rows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Err returns the error, if any, that was encountered during iteration.
func (p *pgxRows) Err() error {
	return p.rows.Err()
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}
