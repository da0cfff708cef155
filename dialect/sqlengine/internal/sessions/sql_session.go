package sessions

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// SQLSession implements dialect.Session for a *sql.Conn.
type SQLSession struct {
	conn *sql.Conn
}

// NewSQLSession creates a new database/sql session.
func NewSQLSession(conn *sql.Conn) *SQLSession {
	return &SQLSession{conn: conn}
}

func (s *SQLSession) Query(ctx context.Context, query string, args ...any) (dialect.Rows, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func (s *SQLSession) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}

// stdRows wraps standard library sql.Rows to implement the dialect.Rows interface.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}
