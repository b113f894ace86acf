package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"bytebank/internal/domain/user"
	"bytebank/internal/shared/auth"
)

const (
	msgEmailTaken       = "Este e-mail já está em uso"
	msgWrongCredentials = "E-mail e/ou senha incorreta"
)

type AuthHandler struct {
	users user.Repository
	jwt   *auth.JWT
}

func NewAuthHandler(users user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// HandleRegister creates a new user account.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, msgRequiredFields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	created, err := h.users.Create(r.Context(), user.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, user.ErrEmailTaken) {
		respondError(w, http.StatusBadRequest, msgEmailTaken)
		return
	}
	if err != nil {
		log.Printf("Error creating user: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// HandleLogin verifies credentials and issues a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	u, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, user.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, msgWrongCredentials)
		return
	}
	if err != nil {
		log.Printf("Error fetching user for login: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, msgWrongCredentials)
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		log.Printf("Error generating token for user %d: %v", u.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{User: u, Token: token})
}

// HandleHealth is the liveness endpoint.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
