package database

import "context"

// DB is the contract the introspector and the foreign-key resolver talk to.
// They never import the engine packages directly.
type DB interface {
	// Driver reports which engine backs this connection.
	Driver() Driver

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()

	// Query executes a statement that returns rows scanned positionally.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryMaps executes a statement and returns every row keyed by column
	// name. Text values are returned as string, never []byte.
	QueryMaps(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}
