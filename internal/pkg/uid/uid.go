// Package uid generates identifiers: UUIDv7 strings for records and request
// correlation, and snowflake numbers for user primary keys.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}
