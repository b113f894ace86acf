package transaction

import "context"

// Repository defines the interface for transaction data access.
// Every operation is scoped to the owning user: lookups, updates and deletes
// for rows owned by someone else return ErrNotFound.
type Repository interface {
	Create(ctx context.Context, params CreateTransactionParams) (*Transaction, error)
	GetByID(ctx context.Context, userID, id int64) (*Transaction, error)
	// ListByUserID returns the user's transactions, newest transaction_date first.
	ListByUserID(ctx context.Context, userID int64) ([]*Transaction, error)
	Update(ctx context.Context, userID, id int64, params UpdateTransactionParams) (*Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
	// Balances sums amounts per account type across all of the user's rows.
	Balances(ctx context.Context, userID int64) (*Balances, error)
}
