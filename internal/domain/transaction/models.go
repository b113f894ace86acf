package transaction

import (
	"errors"
	"time"
)

// AccountType classifies which account a transaction belongs to.
// The set of values is closed; anything else is rejected at the API boundary.
type AccountType string

// TransactionType classifies the kind of movement.
type TransactionType string

const (
	AccountContaCorrente AccountType = "conta-corrente"
	AccountPoupanca      AccountType = "poupanca"

	TypeTransferencia TransactionType = "transferencia"
	TypeDeposito      TransactionType = "deposito"
)

var (
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrNotFound is returned for ids that do not exist for the given owner.
	// Rows owned by another user are indistinguishable from missing rows.
	ErrNotFound = errors.New("transaction not found")
)

// ParseAccountType converts a wire value into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case AccountContaCorrente, AccountPoupanca:
		return t, nil
	}
	return "", ErrInvalidAccountType
}

// ParseTransactionType converts a wire value into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TypeTransferencia, TypeDeposito:
		return t, nil
	}
	return "", ErrInvalidTransactionType
}

type Transaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	AccountType     AccountType     `json:"account_type"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          float64         `json:"amount"`
	Description     *string         `json:"description"`
	AttachmentURL   *string         `json:"attachment_url"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CreateTransactionParams struct {
	UserID          int64
	AccountType     AccountType
	TransactionType TransactionType
	Amount          float64
	Description     *string
	AttachmentURL   *string
}

// UpdateTransactionParams carries only the fields the caller supplied.
// A nil pointer keeps the stored value; a pointer to the zero value overwrites,
// so an explicit empty description clears the old one.
type UpdateTransactionParams struct {
	AccountType     *AccountType
	TransactionType *TransactionType
	Amount          *float64
	Description     *string
	AttachmentURL   *string
}

// Balances is the per-account-type sum of amounts for one user.
// Both keys are always present; account types with no rows report zero.
type Balances struct {
	ContaCorrente float64 `json:"conta-corrente"`
	Poupanca      float64 `json:"poupanca"`
}
