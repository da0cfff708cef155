package sqlengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

const (
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "dialect operation: "
	logMsgAdapterBound          = "adapter bound"
	logMsgSchemaChanged         = "schema changed"
	logMsgSchemaRestored        = "original schema restored"
	logMsgBindFailed            = "binding adapter failed"
	logMsgProbeFailed           = "session probe failed"
	logMsgSchemaChangeFailed    = "changing current schema failed"
	logMsgSchemaQueryFailed     = "schema query failed"
	logMsgCloseRowsFailed       = "failed to close probe rows"
	logMsgOriginalSchemaUnknown = "original schema unknown, restore disabled"
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrDurationMS           = "duration_ms"
	logAttrProduct              = "product"
	logAttrVersion              = "version"
	logAttrAdapterID            = "adapter_id"
	logAttrSchema               = "schema"
	logAttrOriginalSchema       = "original_schema"
	operationBind               = "bind"
	operationCurrentUser        = "current_user"
	operationCurrentSchema      = "current_schema"
	operationChangeSchema       = "change_schema"
	operationRestoreSchema      = "restore_schema"
	operationSchemaQuery        = "schema_query"
	spanNameBind                = "dialect.bind"
	spanNameCurrentUser         = "dialect.current_user"
	spanNameCurrentSchema       = "dialect.current_schema"
	spanNameChangeSchema        = "dialect.change_schema"
	spanNameSchemaQuery         = "dialect.schema_query"
	spanAttrOperation           = "operation"
	spanAttrErrorType           = "error_type"
	spanAttrProduct             = "product"
	spanAttrAdapterID           = "adapter_id"
	spanAttrSchema              = "schema"
	spanAttrDurationMS          = "duration_ms"
	metricBindDuration          = "dialect_bind_duration_seconds"
	metricProbeDuration         = "dialect_probe_duration_seconds"
	metricSchemaChangeDuration  = "dialect_schema_change_duration_seconds"
	metricSchemaQueryDuration   = "dialect_schema_query_duration_seconds"
	metricOperations            = "dialect_operations_total"
	metricErrors                = "dialect_errors_total"
	labelStatus                 = "status"
	statusSuccess               = "success"
	statusError                 = "error"
	errorTypeNilSession         = "nil_session"
	errorTypeDetection          = "detection_failed"
	errorTypeNoMatchingAdapter  = "no_matching_adapter"
	errorTypeInvalidProfile     = "invalid_profile"
	errorTypeUnsupportedVersion = "unsupported_version"
	errorTypeProbeQuery         = "probe_query_failed"
	errorTypeProbeNoRows        = "probe_no_rows"
	errorTypeProbeScan          = "probe_scan_failed"
	errorTypeSchemaChange       = "schema_change_failed"
	errorTypeSchemaQuery        = "schema_query_failed"
	errorTypeNotSupported       = "not_supported"
)

// logQueryWithDuration logs executed SQL with its execution time at debug level.
func (a *Adapter) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	if a.logger != nil {
		a.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if a.contextualLogger != nil {
		a.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level.
func (a *Adapter) logOperation(ctx context.Context, action string, args ...any) {
	allArgs := append([]any{logAttrAdapterID, a.id, logAttrProduct, a.product.ID}, args...)

	if a.logger != nil {
		a.logger.Info(logMsgOperation+action, allArgs...)
	}

	if a.contextualLogger != nil {
		a.contextualLogger.InfoContext(ctx, logMsgOperation+action, allArgs...)
	}
}

// logWarn logs non-critical issues at warn level.
func (a *Adapter) logWarn(ctx context.Context, message string, err error) {
	if a.logger != nil {
		a.logger.Warn(message, logAttrError, err.Error(), logAttrAdapterID, a.id)
	}

	if a.contextualLogger != nil {
		a.contextualLogger.WarnContext(ctx, message, logAttrError, err.Error(), logAttrAdapterID, a.id)
	}
}

// logError logs error information at the error level.
func (a *Adapter) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrAdapterID, a.id}
	if a.product.ID != "" {
		allArgs = append(allArgs, logAttrProduct, a.product.ID)
	}
	allArgs = append(allArgs, args...)

	if a.logger != nil {
		a.logger.Error(message, allArgs...)
	}

	if a.contextualLogger != nil {
		a.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (a *Adapter) metricLabels(operation, status string) map[string]string {
	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}
	if a.product.ID != "" {
		labels[spanAttrProduct] = a.product.ID
	}

	return labels
}

// recordOperationMetrics records the duration of an operation and counts it.
// Context-aware collector methods are used when available.
func (a *Adapter) recordOperationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if a.metricsCollector == nil {
		return
	}

	labels := a.metricLabels(operation, status)

	if contextualCollector, ok := a.metricsCollector.(dialect.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, metricOperations, labels)

		return
	}

	a.metricsCollector.RecordDuration(metricName, duration, labels)
	a.metricsCollector.IncrementCounter(metricOperations, labels)
}

// recordErrorMetrics counts a failed operation.
func (a *Adapter) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if a.metricsCollector == nil {
		return
	}

	labels := a.metricLabels(operation, statusError)
	labels[spanAttrErrorType] = errorType

	if contextualCollector, ok := a.metricsCollector.(dialect.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricErrors, labels)
		return
	}

	a.metricsCollector.IncrementCounter(metricErrors, labels)
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (a *Adapter) startTraceSpan(ctx context.Context, name, operation string) (context.Context, dialect.SpanContext) {
	if a.tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		spanAttrOperation: operation,
		spanAttrAdapterID: a.id,
	}
	if a.product.ID != "" {
		attrs[spanAttrProduct] = a.product.ID
	}

	return a.tracingCollector.StartSpan(ctx, name, attrs)
}

// finishSpanSuccess finishes a successful span.
func (a *Adapter) finishSpanSuccess(span dialect.SpanContext, duration time.Duration, attrs map[string]string) {
	if a.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	a.tracingCollector.FinishSpan(span, statusSuccess, attrs)
}

// finishSpanError finishes a span with error details.
func (a *Adapter) finishSpanError(span dialect.SpanContext, errorType string, duration time.Duration) {
	if a.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorType, errorType)
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	a.tracingCollector.FinishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// failOperation is the common error exit: log, count and close the span.
func (a *Adapter) failOperation(
	ctx context.Context,
	span dialect.SpanContext,
	start time.Time,
	operation, errorType, message string,
	err error,
	args ...any,
) {
	a.logError(ctx, message, err, args...)
	a.recordErrorMetrics(ctx, operation, errorType)
	a.finishSpanError(span, errorType, time.Since(start))
}
