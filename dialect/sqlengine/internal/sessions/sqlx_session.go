package sessions

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// SQLXSession implements dialect.Session for a *sqlx.Conn.
type SQLXSession struct {
	conn *sqlx.Conn
}

// NewSQLXSession creates a new sqlx session.
func NewSQLXSession(conn *sqlx.Conn) *SQLXSession {
	return &SQLXSession{conn: conn}
}

// Query executes a query using the sqlx.Conn and returns wrapped rows.
func (s *SQLXSession) Query(ctx context.Context, query string, args ...any) (dialect.Rows, error) {
	rows, err := s.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows.Rows}, nil
}

// Exec executes a statement using the sqlx.Conn.
func (s *SQLXSession) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}
