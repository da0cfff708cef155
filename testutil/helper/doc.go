// Package helper provides test doubles for the dialect packages: spies that capture
// logs, metrics and spans, and a scripted FakeSession standing in for a live connection.
package helper
