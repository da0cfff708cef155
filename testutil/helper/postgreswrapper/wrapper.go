package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	"github.com/AntonStoeckl/sqldialect-go/dialect/sqlengine"
)

// Environment variables that select the live database and the connection flavor.
const (
	EnvDSN         = "POSTGRES_TEST_DSN"
	EnvAdapterType = "ADAPTER_TYPE"
)

// Session type constants
const (
	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"
)

const defaultConnectTimeout = time.Second * 5

// Wrapper abstracts over the different connection types behind a dialect.Session.
type Wrapper interface {
	GetSession() dialect.Session
	Close()
}

// PGXPoolWrapper wraps one connection acquired from a pgxpool.
type PGXPoolWrapper struct {
	pool    *pgxpool.Pool
	conn    *pgxpool.Conn
	session dialect.Session
}

func (w *PGXPoolWrapper) GetSession() dialect.Session {
	return w.session
}

func (w *PGXPoolWrapper) Close() {
	w.conn.Release()
	w.pool.Close()
}

// SQLDBWrapper wraps one *sql.Conn from a database/sql pool.
type SQLDBWrapper struct {
	db      *sql.DB
	conn    *sql.Conn
	session dialect.Session
}

func (w *SQLDBWrapper) GetSession() dialect.Session {
	return w.session
}

func (w *SQLDBWrapper) Close() {
	_ = w.conn.Close() // ignore error
	_ = w.db.Close()   // ignore error
}

// SQLXWrapper wraps one *sqlx.Conn.
type SQLXWrapper struct {
	db      *sqlx.DB
	conn    *sqlx.Conn
	session dialect.Session
}

func (w *SQLXWrapper) GetSession() dialect.Session {
	return w.session
}

func (w *SQLXWrapper) Close() {
	_ = w.conn.Close() // ignore error
	_ = w.db.Close()   // ignore error
}

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE.
// The test is skipped when POSTGRES_TEST_DSN is not set.
func CreateWrapperWithTestConfig(t testing.TB) Wrapper {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set, skipping live database test", EnvDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	sessionTypeFromEnv := strings.ToLower(os.Getenv(EnvAdapterType))

	switch sessionTypeFromEnv {
	case typePGXPool, "":
		poolConfig, err := pgxpool.ParseConfig(dsn)
		require.NoError(t, err, "error parsing the DSN in test setup")
		poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")
		conn, err := pool.Acquire(ctx)
		require.NoError(t, err, "error acquiring a connection in test setup")
		session, err := sqlengine.NewSessionFromPGXPoolConn(conn)
		require.NoError(t, err)

		return &PGXPoolWrapper{pool: pool, conn: conn, session: session}

	case typeSQLDB:
		db, err := sql.Open("postgres", dsn)
		require.NoError(t, err, "error opening the DB in test setup")
		conn, err := db.Conn(ctx)
		require.NoError(t, err, "error connecting to DB in test setup")
		session, err := sqlengine.NewSessionFromSQLConn(conn)
		require.NoError(t, err)

		return &SQLDBWrapper{db: db, conn: conn, session: session}

	case typeSQLX:
		db, err := sqlx.Open("postgres", dsn)
		require.NoError(t, err, "error opening the DB in test setup")
		conn, err := db.Connx(ctx)
		require.NoError(t, err, "error connecting to DB in test setup")
		session, err := sqlengine.NewSessionFromSQLXConn(conn)
		require.NoError(t, err)

		return &SQLXWrapper{db: db, conn: conn, session: session}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", sessionTypeFromEnv))
	}
}

// UniqueSchemaName returns a schema name no other test run uses.
func UniqueSchemaName(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// CleanUpSchema drops the schema if a test left it behind.
func CleanUpSchema(t testing.TB, wrapper Wrapper, schema string) {
	t.Helper()

	err := wrapper.GetSession().Exec(context.Background(), fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, dialect.DoubleQuotes.Quote(schema)))
	require.NoError(t, err, "error cleaning up schema %s", schema)
}
