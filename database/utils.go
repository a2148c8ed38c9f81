package database

import (
	"context"
	"time"
)

// ContextWithTimeout derives a bounded context for a single store call
func ContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// Common timeout durations for database operations
const (
	// ShortTimeout for quick operations like create, update, delete single documents
	ShortTimeout = 5 * time.Second

	// MediumTimeout for queries that might return multiple documents or complex operations
	MediumTimeout = 10 * time.Second

	// LongTimeout for bulk operations, migrations, or complex aggregations
	LongTimeout = 30 * time.Second
)

// WithShortTimeout creates a context with ShortTimeout (5 seconds)
func WithShortTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(context.Background(), ShortTimeout)
}

// WithMediumTimeout creates a context with MediumTimeout (10 seconds)
func WithMediumTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(context.Background(), MediumTimeout)
}
