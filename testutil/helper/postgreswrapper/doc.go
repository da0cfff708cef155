// Package postgreswrapper connects tests to a live PostgreSQL through any of the supported
// connection types, selected by the ADAPTER_TYPE environment variable.
package postgreswrapper
