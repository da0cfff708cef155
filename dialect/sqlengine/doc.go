// Package sqlengine implements the dialect contract once, generically, for every product
// described by a dialect.Profile, and binds it to live sessions through a Registry.
//
// Binding runs three steps in order: detect the product behind the session, look up its
// registration, and pass the version gate. Only an adapter that passed the gate is returned.
//
//	conn, _ := pool.Acquire(ctx)
//	session, err := sqlengine.NewSessionFromPGXPoolConn(conn)
//	if err != nil {
//		// handle error
//	}
//
//	adapter, err := sqlengine.DefaultRegistry().Bind(ctx, session,
//		sqlengine.WithLogger(slog.Default()),
//	)
//	if err != nil {
//		// errors.Is(err, dialect.ErrUnsupportedVersion) / dialect.ErrNoMatchingAdapter / ...
//	}
//
// Products are added by registering a Profile (or a Constructor for version-dependent
// profiles); the dispatch logic never changes.
package sqlengine
