package memory

import "context"

// Transactor implements database.Transactor without transactional semantics.
// The mutex-guarded stores keep individual operations atomic, which is all
// the services rely on in tests.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
