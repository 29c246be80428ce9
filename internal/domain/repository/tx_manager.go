package repository

import "context"

// TxManager runs a function inside a database transaction. Repositories
// participating in the transaction pick it up from the context; nested
// calls reuse the outer transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
