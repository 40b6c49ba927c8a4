// Package repository provides draft-state stores keyed by league id.
package repository

import (
	"context"

	"github.com/okian/bricklayers/internal/domain/draft"
)

// Store persists one draft state per league. Every Set writes a complete
// value, so readers never observe a partial write.
type Store interface {
	draft.Store

	// Count returns the number of leagues with recorded state.
	Count(ctx context.Context) int

	// Close releases resources held by the store.
	Close() error
}

// Driver names accepted by New.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// New opens the store named by driver.
func New(ctx context.Context, driver string, opts ...Option) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverPostgres:
		return NewPostgresStore(ctx, opts...)
	default:
		return nil, ErrUnknownDriver
	}
}
