package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bytebank/internal/domain/transaction"
	"bytebank/internal/domain/user"
	"bytebank/internal/shared/apperror"
)

// API talks to the transactions service. Every failure comes back as an
// *apperror.AppError carrying a message fit to show to the user; callers
// never have to translate transport errors themselves.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{baseURL: baseURL, http: httpClient}
}

// SetToken stores the bearer token sent on every subsequent request.
func (a *API) SetToken(token string) {
	a.token = token
}

// TransactionInput is the request body for create and update. Pointer fields
// left nil are omitted, so a partial update only touches what was supplied.
type TransactionInput struct {
	AccountType     string   `json:"account_type,omitempty"`
	TransactionType string   `json:"transaction_type,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	Description     *string  `json:"description,omitempty"`
	AttachmentURL   *string  `json:"attachment_url,omitempty"`
}

// SessionData is the login response: the authenticated user plus the token
// to present on subsequent calls.
type SessionData struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates an account.
func (a *API) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var created user.User
	if err := a.do(ctx, http.MethodPost, "/api/users", body, &created, "Erro ao criar usuário"); err != nil {
		return nil, err
	}
	return &created, nil
}

// Login exchanges credentials for a token and stores it on the API.
func (a *API) Login(ctx context.Context, email, password string) (*SessionData, error) {
	body := map[string]string{"email": email, "password": password}
	var session SessionData
	if err := a.do(ctx, http.MethodPost, "/api/sessions", body, &session, "Erro ao entrar"); err != nil {
		return nil, err
	}
	a.token = session.Token
	return &session, nil
}

// ListTransactions fetches every transaction of the authenticated user.
func (a *API) ListTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	if err := a.do(ctx, http.MethodGet, "/api/transactions", nil, &transactions, "Erro ao buscar transações"); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Balances fetches the per-account-type totals.
func (a *API) Balances(ctx context.Context) (transaction.Balances, error) {
	var balances transaction.Balances
	if err := a.do(ctx, http.MethodGet, "/api/transactions/balances", nil, &balances, "Erro ao buscar saldos"); err != nil {
		return transaction.Balances{}, err
	}
	return balances, nil
}

// CreateTransaction posts a new transaction.
func (a *API) CreateTransaction(ctx context.Context, input TransactionInput) (*transaction.Transaction, error) {
	var created transaction.Transaction
	if err := a.do(ctx, http.MethodPost, "/api/transactions", input, &created, "Erro ao criar transação"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction sends a partial update for one transaction.
func (a *API) UpdateTransaction(ctx context.Context, id int64, input TransactionInput) (*transaction.Transaction, error) {
	var updated transaction.Transaction
	path := fmt.Sprintf("/api/transactions/%d", id)
	if err := a.do(ctx, http.MethodPut, path, input, &updated, "Erro ao atualizar transação"); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes one transaction.
func (a *API) DeleteTransaction(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/transactions/%d", id)
	return a.do(ctx, http.MethodDelete, path, nil, nil, "Erro ao deletar transação")
}

// do performs one request and decodes the response into out (when non-nil).
// Failures become AppErrors: the server's envelope message when it sent one,
// the caller's fallback otherwise.
func (a *API) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperror.New(fallback)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return apperror.New(fallback)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return apperror.New(fallback)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			return apperror.NewWithStatus(envelope.Message, resp.StatusCode)
		}
		return apperror.NewWithStatus(fallback, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.New(fallback)
	}
	return nil
}
