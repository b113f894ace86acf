package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bytebank/internal/domain/transaction"
	"bytebank/internal/shared/middleware"
)

// User-facing validation and lookup messages.
const (
	msgRequiredFields         = "Todos os campos obrigatórios devem ser preenchidos"
	msgInvalidAccountType     = "Tipo de conta inválido"
	msgInvalidTransactionType = "Tipo de transação inválido"
	msgTransactionNotFound    = "Transação não encontrada"
	msgInvalidBody            = "Corpo da requisição inválido"
)

type TransactionHandler struct {
	repo transaction.Repository
}

func NewTransactionHandler(repo transaction.Repository) *TransactionHandler {
	return &TransactionHandler{repo: repo}
}

type createTransactionRequest struct {
	AccountType     string   `json:"account_type"`
	TransactionType string   `json:"transaction_type"`
	Amount          *float64 `json:"amount"`
	Description     *string  `json:"description"`
	AttachmentURL   *string  `json:"attachment_url"`
}

// Fields left out of the request body keep their stored values; an explicit
// empty string overwrites. Hence pointers rather than plain strings.
type updateTransactionRequest struct {
	AccountType     *string  `json:"account_type"`
	TransactionType *string  `json:"transaction_type"`
	Amount          *float64 `json:"amount"`
	Description     *string  `json:"description"`
	AttachmentURL   *string  `json:"attachment_url"`
}

// HandleTransactions serves the collection routes: list and create.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Método não permitido")
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	transactions, err := h.repo.ListByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	if transactions == nil {
		transactions = []*transaction.Transaction{}
	}

	respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create transaction request: %v", err)
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if req.AccountType == "" || req.TransactionType == "" || req.Amount == nil || *req.Amount == 0 {
		respondError(w, http.StatusBadRequest, msgRequiredFields)
		return
	}

	accountType, err := transaction.ParseAccountType(req.AccountType)
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidAccountType)
		return
	}

	transactionType, err := transaction.ParseTransactionType(req.TransactionType)
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidTransactionType)
		return
	}

	created, err := h.repo.Create(r.Context(), transaction.CreateTransactionParams{
		UserID:          userID,
		AccountType:     accountType,
		TransactionType: transactionType,
		Amount:          *req.Amount,
		Description:     req.Description,
		AttachmentURL:   req.AttachmentURL,
	})
	if err != nil {
		log.Printf("Error creating transaction for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// HandleBalances returns the per-account-type sum of the caller's amounts.
func (h *TransactionHandler) HandleBalances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	balances, err := h.repo.Balances(r.Context(), userID)
	if err != nil {
		log.Printf("Error computing balances for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusOK, balances)
}

// HandleTransactionByID serves get, update and delete for a single owned row.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	// A non-numeric id cannot reference a row, so it reads as not found
	// rather than leaking anything about what ids look like.
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, userID, id)
	case http.MethodPut:
		h.handleUpdate(w, r, userID, id)
	case http.MethodDelete:
		h.handleDelete(w, r, userID, id)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Método não permitido")
	}
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request, userID, id int64) {
	tx, err := h.repo.GetByID(r.Context(), userID, id)
	if errors.Is(err, transaction.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}
	if err != nil {
		log.Printf("Error getting transaction %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID, id int64) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update transaction request: %v", err)
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	params := transaction.UpdateTransactionParams{
		Amount:        req.Amount,
		Description:   req.Description,
		AttachmentURL: req.AttachmentURL,
	}

	// Enum fields are re-validated only when supplied; an empty string is
	// treated as absent, matching the falsy check the mobile clients rely on.
	if req.AccountType != nil && *req.AccountType != "" {
		accountType, err := transaction.ParseAccountType(*req.AccountType)
		if err != nil {
			respondError(w, http.StatusBadRequest, msgInvalidAccountType)
			return
		}
		params.AccountType = &accountType
	}
	if req.TransactionType != nil && *req.TransactionType != "" {
		transactionType, err := transaction.ParseTransactionType(*req.TransactionType)
		if err != nil {
			respondError(w, http.StatusBadRequest, msgInvalidTransactionType)
			return
		}
		params.TransactionType = &transactionType
	}

	updated, err := h.repo.Update(r.Context(), userID, id, params)
	if errors.Is(err, transaction.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}
	if err != nil {
		log.Printf("Error updating transaction %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID, id int64) {
	err := h.repo.Delete(r.Context(), userID, id)
	if errors.Is(err, transaction.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}
	if err != nil {
		log.Printf("Error deleting transaction %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
