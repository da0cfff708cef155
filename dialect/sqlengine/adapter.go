package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// Adapter is the generic dialect.Adapter. Everything product specific comes from its Profile.
// Adapters are handed out by a Registry after the version gate passed; the zero value is unbound.
// An Adapter is not safe for concurrent use, matching the single session it is bound to.
type Adapter struct {
	id      string
	profile dialect.Profile
	product dialect.ProductInfo
	session dialect.Session

	// schemaSession is session, instrumented for Schema handles.
	schemaSession dialect.Session

	originalSchema   string
	originalCaptured bool

	logger           dialect.Logger
	contextualLogger dialect.ContextualLogger
	metricsCollector dialect.MetricsCollector
	tracingCollector dialect.TracingCollector
}

var _ dialect.Adapter = (*Adapter)(nil)

func (a *Adapter) bindTo(session dialect.Session, profile dialect.Profile, product dialect.ProductInfo) {
	a.session = session
	a.schemaSession = &observedSession{adapter: a, session: session}
	a.profile = profile
	a.product = product
}

func newAdapter(options ...Option) (*Adapter, error) {
	a := &Adapter{id: uuid.NewString()}

	for _, option := range options {
		if err := option(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// ID identifies this bound instance in logs and traces.
func (a *Adapter) ID() string {
	return a.id
}

// Product describes the detected backend.
func (a *Adapter) Product() dialect.ProductInfo {
	return a.product
}

// Profile returns a copy of the configuration the adapter was built from.
func (a *Adapter) Profile() dialect.Profile {
	return a.profile.Clone()
}

// Capabilities returns a copy of the product's fixed traits.
func (a *Adapter) Capabilities() dialect.Capabilities {
	return a.profile.Capabilities
}

// Quote renders identifier with the product's quoting and escaping rule.
func (a *Adapter) Quote(identifier string) string {
	return a.quoter().Quote(identifier)
}

// QuoteQualified quotes every part and joins them with ".".
func (a *Adapter) QuoteQualified(parts ...string) string {
	return dialect.QuoteQualified(a.quoter(), parts...)
}

func (a *Adapter) quoter() dialect.Quoter {
	if a.profile.Quoter == nil {
		return dialect.DoubleQuotes
	}

	return a.profile.Quoter
}

// CurrentUser runs the product's "who am I" probe.
func (a *Adapter) CurrentUser(ctx context.Context) (string, error) {
	return a.probe(ctx, spanNameCurrentUser, operationCurrentUser, a.profile.Probes.CurrentUser)
}

// CurrentSchema runs the product's "which schema am I in" probe.
func (a *Adapter) CurrentSchema(ctx context.Context) (string, error) {
	return a.probe(ctx, spanNameCurrentSchema, operationCurrentSchema, a.profile.Probes.CurrentSchema)
}

func (a *Adapter) probe(ctx context.Context, spanName, operation string, p dialect.Probe) (string, error) {
	if a.session == nil {
		return "", dialect.ErrUnboundAdapter
	}

	if p.IsStatic() {
		return p.Static, nil
	}

	ctx, span := a.startTraceSpan(ctx, spanName, operation)
	start := time.Now()

	rows, err := a.session.Query(ctx, p.SQL)
	if err != nil {
		a.failOperation(ctx, span, start, operation, errorTypeProbeQuery, logMsgProbeFailed, err, logAttrQuery, p.SQL)
		return "", errors.Join(dialect.ErrProbeQueryFailed, fmt.Errorf("%s probe %q", operation, p.SQL), err)
	}
	defer a.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			a.failOperation(ctx, span, start, operation, errorTypeProbeQuery, logMsgProbeFailed, rowsErr, logAttrQuery, p.SQL)
			return "", errors.Join(dialect.ErrProbeQueryFailed, fmt.Errorf("%s probe %q", operation, p.SQL), rowsErr)
		}

		noRowsErr := fmt.Errorf("%s probe %q", operation, p.SQL)
		a.failOperation(ctx, span, start, operation, errorTypeProbeNoRows, logMsgProbeFailed, dialect.ErrProbeReturnedNoRows, logAttrQuery, p.SQL)

		return "", errors.Join(dialect.ErrProbeQueryFailed, dialect.ErrProbeReturnedNoRows, noRowsErr)
	}

	var value sql.NullString
	if err := rows.Scan(&value); err != nil {
		a.failOperation(ctx, span, start, operation, errorTypeProbeScan, logMsgProbeFailed, err, logAttrQuery, p.SQL)
		return "", errors.Join(dialect.ErrProbeQueryFailed, dialect.ErrScanningProbeRowFailed, err)
	}

	duration := time.Since(start)
	a.logQueryWithDuration(ctx, p.SQL, operation, duration)
	a.recordOperationMetrics(ctx, metricProbeDuration, duration, operation, statusSuccess)
	a.finishSpanSuccess(span, duration, nil)

	return value.String, nil
}

func (a *Adapter) closeRows(ctx context.Context, rows dialect.Rows) {
	if err := rows.Close(); err != nil {
		a.logWarn(ctx, logMsgCloseRowsFailed, err)
	}
}

// ChangeSchema switches the session to schema name. The session's schema before the first
// switch is remembered for RestoreOriginalSchema; when it cannot be read the switch still
// runs and restoring becomes a no-op.
// After a failure the effective schema of the session is unknown.
func (a *Adapter) ChangeSchema(ctx context.Context, name string) error {
	if a.session == nil {
		return dialect.ErrUnboundAdapter
	}

	if a.profile.Probes.ChangeSchema == "" {
		a.recordErrorMetrics(ctx, operationChangeSchema, errorTypeNotSupported)
		return errors.Join(
			dialect.ErrOperationNotSupported,
			fmt.Errorf("%s cannot change the current schema of a session", a.profile.Name),
		)
	}

	if !a.originalCaptured {
		original, err := a.CurrentSchema(ctx)
		if err != nil {
			a.logWarn(ctx, logMsgOriginalSchemaUnknown, err)
			original = ""
		}

		a.originalSchema = original
		a.originalCaptured = true
	}

	return a.switchSchema(ctx, operationChangeSchema, name)
}

// RestoreOriginalSchema switches back to the schema the session had before the first ChangeSchema.
// It does nothing when the schema was never changed.
func (a *Adapter) RestoreOriginalSchema(ctx context.Context) error {
	if a.session == nil {
		return dialect.ErrUnboundAdapter
	}

	if !a.originalCaptured || a.originalSchema == "" {
		return nil
	}

	return a.switchSchema(ctx, operationRestoreSchema, a.originalSchema)
}

func (a *Adapter) switchSchema(ctx context.Context, operation, name string) error {
	ctx, span := a.startTraceSpan(ctx, spanNameChangeSchema, operation)
	start := time.Now()

	quoted := a.Quote(name)
	statement := fmt.Sprintf(a.profile.Probes.ChangeSchema, quoted)

	if err := a.session.Exec(ctx, statement); err != nil {
		a.failOperation(ctx, span, start, operation, errorTypeSchemaChange, logMsgSchemaChangeFailed, err,
			logAttrQuery, statement, logAttrSchema, name)

		return errors.Join(dialect.ErrSchemaChangeFailed, fmt.Errorf("switch to schema %s", quoted), err)
	}

	duration := time.Since(start)
	a.logQueryWithDuration(ctx, statement, operation, duration)
	a.recordOperationMetrics(ctx, metricSchemaChangeDuration, duration, operation, statusSuccess)
	a.finishSpanSuccess(span, duration, map[string]string{spanAttrSchema: name})

	if operation == operationRestoreSchema {
		a.logOperation(ctx, logMsgSchemaRestored, logAttrSchema, name)
	} else {
		a.logOperation(ctx, logMsgSchemaChanged, logAttrSchema, name, logAttrOriginalSchema, a.originalSchema)
	}

	return nil
}

// Schema returns a handle on schema name. No I/O happens here.
func (a *Adapter) Schema(name string) dialect.Schema {
	return dialect.NewSchema(a, a.schemaSession, a.profile, name)
}

// NewStatementBuilder returns a fresh builder configured with the product's statement rules.
func (a *Adapter) NewStatementBuilder() *dialect.StatementBuilder {
	return dialect.NewStatementBuilder(a.profile.Clone().Statements)
}

// SupportsDDLTransactions reports whether DDL can be rolled back in a transaction.
func (a *Adapter) SupportsDDLTransactions() bool {
	return a.profile.Capabilities.SupportsDDLTransactions
}

// BooleanTrue returns the product's literal for true.
func (a *Adapter) BooleanTrue() string {
	return a.profile.Capabilities.BooleanTrue
}

// BooleanFalse returns the product's literal for false.
func (a *Adapter) BooleanFalse() string {
	return a.profile.Capabilities.BooleanFalse
}

// CatalogIsSchema reports whether catalog and schema are the same concept.
func (a *Adapter) CatalogIsSchema() bool {
	return a.profile.Capabilities.CatalogIsSchema
}

// UseSingleConnection reports whether all access must go through exactly one connection.
func (a *Adapter) UseSingleConnection() bool {
	return a.profile.Capabilities.SingleConnectionOnly
}

// observedSession instruments the queries a Schema handle issues through the adapter.
type observedSession struct {
	adapter *Adapter
	session dialect.Session
}

func (s *observedSession) Query(ctx context.Context, query string, args ...any) (dialect.Rows, error) {
	ctx, span := s.adapter.startTraceSpan(ctx, spanNameSchemaQuery, operationSchemaQuery)
	start := time.Now()

	rows, err := s.session.Query(ctx, query, args...)
	if err != nil {
		s.adapter.failOperation(ctx, span, start, operationSchemaQuery, errorTypeSchemaQuery, logMsgSchemaQueryFailed, err, logAttrQuery, query)
		return nil, err
	}

	s.finish(ctx, span, query, start)

	return rows, nil
}

func (s *observedSession) Exec(ctx context.Context, query string, args ...any) error {
	ctx, span := s.adapter.startTraceSpan(ctx, spanNameSchemaQuery, operationSchemaQuery)
	start := time.Now()

	if err := s.session.Exec(ctx, query, args...); err != nil {
		s.adapter.failOperation(ctx, span, start, operationSchemaQuery, errorTypeSchemaQuery, logMsgSchemaQueryFailed, err, logAttrQuery, query)
		return err
	}

	s.finish(ctx, span, query, start)

	return nil
}

func (s *observedSession) finish(ctx context.Context, span dialect.SpanContext, query string, start time.Time) {
	duration := time.Since(start)
	s.adapter.logQueryWithDuration(ctx, query, operationSchemaQuery, duration)
	s.adapter.recordOperationMetrics(ctx, metricSchemaQueryDuration, duration, operationSchemaQuery, statusSuccess)
	s.adapter.finishSpanSuccess(span, duration, nil)
}
