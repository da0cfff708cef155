package dialect

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is returned when a backend reports a version below the adapter's minimum.
	ErrUnsupportedVersion = errors.New("database version is not supported")

	// ErrProbeQueryFailed is returned when a current-user or current-schema probe is rejected by the backend.
	ErrProbeQueryFailed = errors.New("session probe query failed")

	// ErrProbeReturnedNoRows is returned when a probe executed fine but produced no row.
	ErrProbeReturnedNoRows = errors.New("session probe query returned no rows")

	// ErrSchemaChangeFailed is returned when the schema-switch statement fails.
	// The effective schema of the session is unknown afterwards.
	ErrSchemaChangeFailed = errors.New("changing the current schema failed")

	// ErrNoMatchingAdapter is returned when no adapter is registered for the detected product.
	ErrNoMatchingAdapter = errors.New("no known adapter for database product")

	// ErrDetectionFailed is returned when the product or its version could not be determined.
	ErrDetectionFailed = errors.New("detecting database product failed")

	// ErrOperationNotSupported is returned for operations the product has no notion of.
	ErrOperationNotSupported = errors.New("operation not supported by this database")

	// ErrNilSession is returned when a nil session or connection is supplied.
	ErrNilSession = errors.New("nil session supplied")

	// ErrUnboundAdapter is returned when an adapter or schema handle is used without a session.
	ErrUnboundAdapter = errors.New("adapter is not bound to a session")

	// ErrInvalidProfile is returned when a profile misses required settings or its patterns do not compile.
	ErrInvalidProfile = errors.New("invalid dialect profile")

	// ErrDuplicateProduct is returned when a product id or alias is registered twice.
	ErrDuplicateProduct = errors.New("product is already registered")

	// ErrInvalidCatalog is returned when a product catalog cannot be read or resolved.
	ErrInvalidCatalog = errors.New("invalid product catalog")

	// ErrUnterminatedStatement is returned when a script ends inside a literal or comment.
	ErrUnterminatedStatement = errors.New("statement is not terminated")

	// ErrSchemaQueryFailed is returned when a schema handle's catalog query or statement fails.
	ErrSchemaQueryFailed = errors.New("schema query failed")

	// ErrScanningProbeRowFailed is returned when a probe row cannot be scanned into a string.
	ErrScanningProbeRowFailed = errors.New("scanning probe row failed")
)

// UpgradeRequiredError reports a backend that is older than the oldest version an adapter supports.
type UpgradeRequiredError struct {
	Product  string
	Detected string
	Minimum  string
}

// Error implements the error interface.
func (e *UpgradeRequiredError) Error() string {
	return fmt.Sprintf(
		"upgrade required: %s %s is no longer supported, only %s %s or newer is supported",
		e.Product, e.Detected, e.Product, e.Minimum,
	)
}

// Is makes errors.Is(err, ErrUnsupportedVersion) work.
func (e *UpgradeRequiredError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// NoMatchingAdapterError reports the product string for which no adapter is registered.
type NoMatchingAdapterError struct {
	Product string
}

// Error implements the error interface.
func (e *NoMatchingAdapterError) Error() string {
	if e.Product == "" {
		return ErrNoMatchingAdapter.Error()
	}

	return fmt.Sprintf("%s: %q", ErrNoMatchingAdapter.Error(), e.Product)
}

// Is makes errors.Is(err, ErrNoMatchingAdapter) work.
func (e *NoMatchingAdapterError) Is(target error) bool {
	return target == ErrNoMatchingAdapter
}
