package sqlengine

import (
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	"github.com/AntonStoeckl/sqldialect-go/dialect/sqlengine/internal/sessions"
)

// NewSessionFromPGXConn wraps a single pgx connection.
func NewSessionFromPGXConn(conn *pgx.Conn) (dialect.Session, error) {
	if conn == nil {
		return nil, dialect.ErrNilSession
	}

	return sessions.NewPGXSession(conn), nil
}

// NewSessionFromPGXPoolConn wraps a connection acquired from a pgx pool.
// The caller releases it after the adapter is no longer used.
func NewSessionFromPGXPoolConn(conn *pgxpool.Conn) (dialect.Session, error) {
	if conn == nil {
		return nil, dialect.ErrNilSession
	}

	return sessions.NewPGXSession(conn), nil
}

// NewSessionFromSQLConn wraps a connection obtained with (*sql.DB).Conn.
func NewSessionFromSQLConn(conn *sql.Conn) (dialect.Session, error) {
	if conn == nil {
		return nil, dialect.ErrNilSession
	}

	return sessions.NewSQLSession(conn), nil
}

// NewSessionFromSQLXConn wraps a connection obtained with (*sqlx.DB).Connx.
func NewSessionFromSQLXConn(conn *sqlx.Conn) (dialect.Session, error) {
	if conn == nil {
		return nil, dialect.ErrNilSession
	}

	return sessions.NewSQLXSession(conn), nil
}
