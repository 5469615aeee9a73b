package database

import "context"

// Transactor runs fn atomically against the store. The PostgreSQL
// implementation wraps fn in a transaction; the in-memory one just runs it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
