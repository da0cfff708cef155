package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	"github.com/AntonStoeckl/sqldialect-go/dialect/sqlengine"
)

const (
	driverPGX       = "pgx"
	driverPGXPool   = "pgxpool"
	driverPostgres  = "postgres"
	driverMySQL     = "mysql"
	driverSQLite    = "sqlite"
	driverSQLServer = "sqlserver"
)

var errUnknownDriver = errors.New("unknown driver")

// connection is one dedicated backend connection plus whatever has to be closed with it.
type connection struct {
	session dialect.Session
	close   func() error
}

func connect(ctx context.Context, driver, dsn string) (*connection, error) {
	switch driver {
	case driverPGX:
		return connectPGX(ctx, dsn)

	case driverPGXPool:
		return connectPGXPool(ctx, dsn)

	case driverMySQL:
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}

		return connectSQL(ctx, driver, dsn)

	case driverPostgres, driverSQLite, driverSQLServer:
		return connectSQL(ctx, driver, dsn)

	default:
		return nil, fmt.Errorf("%w %q (use %s, %s, %s, %s, %s or %s)", errUnknownDriver, driver,
			driverPGX, driverPGXPool, driverPostgres, driverMySQL, driverSQLite, driverSQLServer)
	}
}

func connectPGX(ctx context.Context, dsn string) (*connection, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	session, err := sqlengine.NewSessionFromPGXConn(conn)
	if err != nil {
		return nil, errors.Join(err, conn.Close(ctx))
	}

	return &connection{session: session, close: func() error { return conn.Close(ctx) }}, nil
}

func connectPGXPool(ctx context.Context, dsn string) (*connection, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	release := func() error {
		conn.Release()
		pool.Close()

		return nil
	}

	session, err := sqlengine.NewSessionFromPGXPoolConn(conn)
	if err != nil {
		return nil, errors.Join(err, release())
	}

	return &connection{session: session, close: release}, nil
}

func connectSQL(ctx context.Context, driver, dsn string) (*connection, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	release := func() error {
		return errors.Join(conn.Close(), db.Close())
	}

	session, err := sqlengine.NewSessionFromSQLXConn(conn)
	if err != nil {
		return nil, errors.Join(err, release())
	}

	return &connection{session: session, close: release}, nil
}
