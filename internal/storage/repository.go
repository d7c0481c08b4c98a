// Package storage contains the storage-agnostic sink contracts and the
// backend factory. Concrete backends (mysql, postgres, sqlite) register
// themselves at init time and are selected by config kind, so callers never
// import database drivers directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the registered backend, e.g. "mysql", "postgres", "sqlite".
	Kind string

	// DSN is the backend-specific connection string.
	DSN string
}

// Repository is the minimal sink surface the pipeline needs: raw DDL
// execution, transaction scoping, and the SQL dialect for DDL rendering.
type Repository interface {
	// Exec runs a single statement (typically DDL) outside any transaction.
	Exec(ctx context.Context, sql string, args ...any) error

	// Begin opens a new transaction. Each load operation owns exactly one.
	Begin(ctx context.Context) (Tx, error)

	// Dialect names the SQL dialect ("mysql", "postgres", "sqlite").
	Dialect() string

	// Close releases the underlying connection pool.
	Close()
}

// Tx is a single transaction. Load operations insert row-by-row when they
// need the generated surrogate key, and in bulk when they do not.
type Tx interface {
	// InsertReturningID inserts one row and returns the auto-generated key
	// from idColumn.
	InsertReturningID(ctx context.Context, table string, columns []string, idColumn string, row []any) (int64, error)

	// CopyFrom bulk-inserts rows aligned to columns and returns the number
	// of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for the given kind.
// It is called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New constructs the Repository for cfg.Kind. Unknown kinds report the
// registered alternatives to make configuration mistakes obvious.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %s)", cfg.Kind, strings.Join(registered(), ", "))
	}
	return fn(ctx, cfg)
}

func registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
