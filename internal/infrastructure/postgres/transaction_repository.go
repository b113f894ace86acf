package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bytebank/internal/domain/transaction"
)

const transactionColumns = `id, user_id, account_type, transaction_type, amount,
	       description, attachment_url, transaction_date, created_at, updated_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, account_type, transaction_type, amount, description, attachment_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transactionColumns

	var tx transaction.Transaction
	err := r.db.QueryRowContext(
		ctx, query,
		params.UserID, string(params.AccountType), string(params.TransactionType),
		params.Amount, params.Description, params.AttachmentURL,
	).Scan(
		&tx.ID, &tx.UserID, &tx.AccountType, &tx.TransactionType, &tx.Amount,
		&tx.Description, &tx.AttachmentURL, &tx.TransactionDate, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id int64) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`

	var tx transaction.Transaction
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&tx.ID, &tx.UserID, &tx.AccountType, &tx.TransactionType, &tx.Amount,
		&tx.Description, &tx.AttachmentURL, &tx.TransactionDate, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var tx transaction.Transaction
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.AccountType, &tx.TransactionType, &tx.Amount,
			&tx.Description, &tx.AttachmentURL, &tx.TransactionDate, &tx.CreatedAt, &tx.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET account_type = COALESCE($1, account_type),
		    transaction_type = COALESCE($2, transaction_type),
		    amount = COALESCE($3, amount),
		    description = COALESCE($4, description),
		    attachment_url = COALESCE($5, attachment_url),
		    updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + transactionColumns

	var tx transaction.Transaction
	err := r.db.QueryRowContext(
		ctx, query,
		accountTypeArg(params.AccountType), transactionTypeArg(params.TransactionType),
		params.Amount, params.Description, params.AttachmentURL,
		id, userID,
	).Scan(
		&tx.ID, &tx.UserID, &tx.AccountType, &tx.TransactionType, &tx.Amount,
		&tx.Description, &tx.AttachmentURL, &tx.TransactionDate, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (r *TransactionRepository) Balances(ctx context.Context, userID int64) (*transaction.Balances, error) {
	query := `
		SELECT account_type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		GROUP BY account_type
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	// Both account types are always present, zero when there are no rows.
	var balances transaction.Balances
	for rows.Next() {
		var accountType string
		var total float64
		if err := rows.Scan(&accountType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}

		switch transaction.AccountType(accountType) {
		case transaction.AccountContaCorrente:
			balances.ContaCorrente = total
		case transaction.AccountPoupanca:
			balances.Poupanca = total
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}

	return &balances, nil
}

// lib/pq only understands plain Go types, so typed enum pointers are
// converted to *string before being bound.
func accountTypeArg(t *transaction.AccountType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func transactionTypeArg(t *transaction.TransactionType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}
