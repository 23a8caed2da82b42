// Package uid provides ID generation behind small interfaces.
//
// NumberID produces sortable numeric IDs for database rows; StringID produces
// opaque string IDs for correlation and tracing.
package uid

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
