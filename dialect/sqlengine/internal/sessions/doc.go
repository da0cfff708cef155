// Package sessions provides dialect.Session implementations over single physical connections.
//
// Schema switches are connection state, so every implementation wraps exactly one
// connection: *pgx.Conn, *pgxpool.Conn, *sql.Conn or *sqlx.Conn. Pools are deliberately
// not accepted; a pool could hand out a different connection for the next call.
package sessions
