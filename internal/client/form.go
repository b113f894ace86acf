package client

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bytebank/internal/domain/transaction"
	"bytebank/internal/shared/apperror"
)

// Form collects the add/edit screen's fields. A zero ID means a new
// transaction; a non-zero ID edits that one. Image, when set, is a freshly
// picked attachment to upload; AttachmentURL carries the already-stored one
// when editing.
type Form struct {
	ID              int64
	AccountType     string
	TransactionType string
	Amount          string
	Description     string
	Image           io.Reader
	AttachmentURL   string
}

// NewForm returns a form with the screen's defaults selected.
func NewForm() *Form {
	return &Form{
		AccountType:     string(transaction.AccountContaCorrente),
		TransactionType: string(transaction.TypeDeposito),
	}
}

// FormForTransaction pre-fills a form from an existing transaction.
func FormForTransaction(t *transaction.Transaction) *Form {
	f := &Form{
		ID:              t.ID,
		AccountType:     string(t.AccountType),
		TransactionType: string(t.TransactionType),
		Amount:          strconv.FormatFloat(t.Amount, 'f', -1, 64),
	}
	if t.Description != nil {
		f.Description = *t.Description
	}
	if t.AttachmentURL != nil {
		f.AttachmentURL = *t.AttachmentURL
	}
	return f
}

// Submit validates the form, uploads a new image when one was picked, and
// creates or updates the transaction through the session.
func (f *Form) Submit(ctx context.Context, session *Session, storage BlobStorage) (*transaction.Transaction, error) {
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return nil, err
	}

	if f.Image == nil && f.AttachmentURL == "" {
		return nil, apperror.New("É obrigatório anexar uma foto")
	}

	attachmentURL := f.AttachmentURL
	if f.Image != nil {
		name := fmt.Sprintf("transaction_%s.jpg", uuid.New().String())
		uploaded, err := storage.Upload(ctx, name, "image/jpeg", f.Image)
		if err != nil {
			return nil, apperror.New("Erro ao fazer upload da imagem")
		}
		attachmentURL = uploaded
	}

	input := TransactionInput{
		AccountType:     f.AccountType,
		TransactionType: f.TransactionType,
		Amount:          &amount,
		AttachmentURL:   &attachmentURL,
	}
	if description := strings.TrimSpace(f.Description); description != "" {
		input.Description = &description
	}

	if f.ID != 0 {
		return session.Update(ctx, f.ID, input)
	}
	return session.Create(ctx, input)
}

// parseAmount accepts both "10.50" and "10,50" and requires a positive value.
func parseAmount(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil || amount <= 0 {
		return 0, apperror.New("Valor deve ser maior que zero")
	}
	return amount, nil
}
