package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bytebank/internal/domain/transaction"
	"bytebank/internal/shared/middleware"
)

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	CreateFunc       func(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error)
	GetByIDFunc      func(ctx context.Context, userID, id int64) (*transaction.Transaction, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*transaction.Transaction, error)
	UpdateFunc       func(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error)
	DeleteFunc       func(ctx context.Context, userID, id int64) error
	BalancesFunc     func(ctx context.Context, userID int64) (*transaction.Balances, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, userID, id int64) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByUserID(ctx context.Context, userID int64) ([]*transaction.Transaction, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Update(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Delete(ctx context.Context, userID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockTransactionRepo) Balances(ctx context.Context, userID int64) (*transaction.Balances, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx, userID)
	}
	return &transaction.Balances{}, nil
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestHandleCreateTransaction(t *testing.T) {
	tests := []struct {
		name            string
		body            map[string]interface{}
		mockRepo        func() *MockTransactionRepo
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "Success",
			body: map[string]interface{}{
				"account_type":     "conta-corrente",
				"transaction_type": "deposito",
				"amount":           100.0,
				"description":      "Mercado",
			},
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					CreateFunc: func(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
						if params.UserID != 1 {
							t.Errorf("Create called with user %d, want 1", params.UserID)
						}
						return &transaction.Transaction{ID: 10, UserID: params.UserID, Amount: params.Amount}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing account type",
			body: map[string]interface{}{
				"transaction_type": "deposito",
				"amount":           100.0,
			},
			mockRepo:        func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Todos os campos obrigatórios devem ser preenchidos",
		},
		{
			name: "Missing amount",
			body: map[string]interface{}{
				"account_type":     "conta-corrente",
				"transaction_type": "deposito",
			},
			mockRepo:        func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Todos os campos obrigatórios devem ser preenchidos",
		},
		{
			name: "Zero amount",
			body: map[string]interface{}{
				"account_type":     "conta-corrente",
				"transaction_type": "deposito",
				"amount":           0.0,
			},
			mockRepo:        func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Todos os campos obrigatórios devem ser preenchidos",
		},
		{
			name: "Invalid account type",
			body: map[string]interface{}{
				"account_type":     "investimento",
				"transaction_type": "deposito",
				"amount":           100.0,
			},
			mockRepo:        func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Tipo de conta inválido",
		},
		{
			name: "Invalid transaction type",
			body: map[string]interface{}{
				"account_type":     "conta-corrente",
				"transaction_type": "saque",
				"amount":           100.0,
			},
			mockRepo:        func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Tipo de transação inválido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransactionHandler(tt.mockRepo())

			body, _ := json.Marshal(tt.body)
			req := authedRequest(http.MethodPost, "/api/transactions", body, 1)

			rr := httptest.NewRecorder()
			handler.HandleTransactions(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedMessage != "" {
				if resp := decodeError(t, rr); resp.Message != tt.expectedMessage {
					t.Errorf("handler returned wrong message: got %q want %q", resp.Message, tt.expectedMessage)
				}
			}
		})
	}
}

func TestHandleListTransactions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := &MockTransactionRepo{
			ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*transaction.Transaction, error) {
				return []*transaction.Transaction{{ID: 1, UserID: userID}}, nil
			},
		}
		handler := NewTransactionHandler(repo)

		req := authedRequest(http.MethodGet, "/api/transactions", nil, 1)
		rr := httptest.NewRecorder()
		handler.HandleTransactions(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}

		var transactions []*transaction.Transaction
		if err := json.NewDecoder(rr.Body).Decode(&transactions); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(transactions) != 1 {
			t.Errorf("got %d transactions, want 1", len(transactions))
		}
	})

	t.Run("Empty list is a JSON array", func(t *testing.T) {
		handler := NewTransactionHandler(&MockTransactionRepo{})

		req := authedRequest(http.MethodGet, "/api/transactions", nil, 1)
		rr := httptest.NewRecorder()
		handler.HandleTransactions(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if body := rr.Body.String(); body != "[]\n" {
			t.Errorf("empty list rendered as %q, want JSON array", body)
		}
	})
}

func TestHandleBalances(t *testing.T) {
	repo := &MockTransactionRepo{
		BalancesFunc: func(ctx context.Context, userID int64) (*transaction.Balances, error) {
			return &transaction.Balances{ContaCorrente: 150.5, Poupanca: 0}, nil
		},
	}
	handler := NewTransactionHandler(repo)

	req := authedRequest(http.MethodGet, "/api/transactions/balances", nil, 1)
	rr := httptest.NewRecorder()
	handler.HandleBalances(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var balances map[string]float64
	if err := json.NewDecoder(rr.Body).Decode(&balances); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if balances["conta-corrente"] != 150.5 {
		t.Errorf("conta-corrente = %v, want 150.5", balances["conta-corrente"])
	}
	if got, ok := balances["poupanca"]; !ok || got != 0 {
		t.Errorf("poupanca = %v (present %v), want explicit 0", got, ok)
	}
}

func TestHandleGetTransactionByID(t *testing.T) {
	tests := []struct {
		name            string
		id              string
		mockRepo        func() *MockTransactionRepo
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "Success",
			id:   "5",
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					GetByIDFunc: func(ctx context.Context, userID, id int64) (*transaction.Transaction, error) {
						return &transaction.Transaction{ID: id, UserID: userID}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not found",
			id:   "99",
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					GetByIDFunc: func(ctx context.Context, userID, id int64) (*transaction.Transaction, error) {
						return nil, transaction.ErrNotFound
					},
				}
			},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Transação não encontrada",
		},
		{
			name:            "Non-numeric id",
			id:              "abc",
			mockRepo:        func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Transação não encontrada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransactionHandler(tt.mockRepo())

			req := authedRequest(http.MethodGet, "/api/transactions/"+tt.id, nil, 1)
			req.SetPathValue("id", tt.id)

			rr := httptest.NewRecorder()
			handler.HandleTransactionByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedMessage != "" {
				if resp := decodeError(t, rr); resp.Message != tt.expectedMessage {
					t.Errorf("handler returned wrong message: got %q want %q", resp.Message, tt.expectedMessage)
				}
			}
		})
	}
}

func TestHandleUpdateTransaction(t *testing.T) {
	t.Run("Partial update keeps omitted fields", func(t *testing.T) {
		var gotParams transaction.UpdateTransactionParams
		repo := &MockTransactionRepo{
			UpdateFunc: func(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
				gotParams = params
				return &transaction.Transaction{ID: id, UserID: userID}, nil
			},
		}
		handler := NewTransactionHandler(repo)

		body := []byte(`{"amount": 42.5}`)
		req := authedRequest(http.MethodPut, "/api/transactions/5", body, 1)
		req.SetPathValue("id", "5")

		rr := httptest.NewRecorder()
		handler.HandleTransactionByID(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if gotParams.Amount == nil || *gotParams.Amount != 42.5 {
			t.Errorf("Amount param = %v, want 42.5", gotParams.Amount)
		}
		if gotParams.AccountType != nil || gotParams.TransactionType != nil || gotParams.Description != nil {
			t.Errorf("omitted fields reached the repository: %+v", gotParams)
		}
	})

	t.Run("Empty description overwrites", func(t *testing.T) {
		var gotParams transaction.UpdateTransactionParams
		repo := &MockTransactionRepo{
			UpdateFunc: func(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
				gotParams = params
				return &transaction.Transaction{ID: id}, nil
			},
		}
		handler := NewTransactionHandler(repo)

		body := []byte(`{"description": ""}`)
		req := authedRequest(http.MethodPut, "/api/transactions/5", body, 1)
		req.SetPathValue("id", "5")

		rr := httptest.NewRecorder()
		handler.HandleTransactionByID(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if gotParams.Description == nil || *gotParams.Description != "" {
			t.Errorf("Description param = %v, want pointer to empty string", gotParams.Description)
		}
	})

	t.Run("Empty enum string is treated as absent", func(t *testing.T) {
		var gotParams transaction.UpdateTransactionParams
		repo := &MockTransactionRepo{
			UpdateFunc: func(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
				gotParams = params
				return &transaction.Transaction{ID: id}, nil
			},
		}
		handler := NewTransactionHandler(repo)

		body := []byte(`{"account_type": "", "amount": 10}`)
		req := authedRequest(http.MethodPut, "/api/transactions/5", body, 1)
		req.SetPathValue("id", "5")

		rr := httptest.NewRecorder()
		handler.HandleTransactionByID(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if gotParams.AccountType != nil {
			t.Errorf("AccountType param = %v, want nil", gotParams.AccountType)
		}
	})

	t.Run("Invalid enum", func(t *testing.T) {
		handler := NewTransactionHandler(&MockTransactionRepo{})

		body := []byte(`{"transaction_type": "saque"}`)
		req := authedRequest(http.MethodPut, "/api/transactions/5", body, 1)
		req.SetPathValue("id", "5")

		rr := httptest.NewRecorder()
		handler.HandleTransactionByID(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
		}
		if resp := decodeError(t, rr); resp.Message != "Tipo de transação inválido" {
			t.Errorf("handler returned wrong message: got %q", resp.Message)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		repo := &MockTransactionRepo{
			UpdateFunc: func(ctx context.Context, userID, id int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
				return nil, transaction.ErrNotFound
			},
		}
		handler := NewTransactionHandler(repo)

		body := []byte(`{"amount": 10}`)
		req := authedRequest(http.MethodPut, "/api/transactions/99", body, 1)
		req.SetPathValue("id", "99")

		rr := httptest.NewRecorder()
		handler.HandleTransactionByID(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
		}
	})
}

func TestHandleDeleteTransaction(t *testing.T) {
	tests := []struct {
		name           string
		mockRepo       func() *MockTransactionRepo
		expectedStatus int
	}{
		{
			name: "Success",
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					DeleteFunc: func(ctx context.Context, userID, id int64) error { return nil },
				}
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "Not found",
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					DeleteFunc: func(ctx context.Context, userID, id int64) error { return transaction.ErrNotFound },
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransactionHandler(tt.mockRepo())

			req := authedRequest(http.MethodDelete, "/api/transactions/5", nil, 1)
			req.SetPathValue("id", "5")

			rr := httptest.NewRecorder()
			handler.HandleTransactionByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}
